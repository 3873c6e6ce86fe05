package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/savorly/savorly/internal/application/planner"
	"github.com/savorly/savorly/internal/application/view"
	"github.com/savorly/savorly/internal/ports/inbound"
)

type command struct {
	usage string
	help  string
	args  int
	// notifies is set for actions whose failures were already shown as a toast
	notifies bool
	// auth is set for the commands that run inside the sign-in dialog
	auth bool
	run  func(ctx context.Context, args []string) error
}

// shell is a line-oriented front end for the planner page
type shell struct {
	page     *view.Page
	out      io.Writer
	ids      *idIndex
	now      func() time.Time
	commands map[string]command
	done     bool
}

func newShell(page *view.Page, out io.Writer) *shell {
	s := &shell{page: page, out: out, ids: newIDIndex(), now: time.Now}
	s.commands = map[string]command{
		"recipes":   {usage: "recipes", help: "list recipes for the applied search", run: s.recipes},
		"search":    {usage: "search <term>", help: "type and submit a search", args: 1, run: s.search},
		"type":      {usage: "type <text>", help: "change the search draft", run: s.typeDraft},
		"submit":    {usage: "submit", help: "apply the search draft", run: s.submit},
		"clear":     {usage: "clear", help: "clear the search", run: s.clear},
		"tag":       {usage: "tag <name>", help: "search by a quick tag", args: 1, run: s.tag},
		"popular":   {usage: "popular", help: "list popular recipes", run: s.popular},
		"show":      {usage: "show <id>", help: "show a recipe", args: 1, run: s.show},
		"book":      {usage: "book <id>", help: "open the booking dialog", args: 1, run: s.book},
		"date":      {usage: "date <YYYY-MM-DD>", help: "set the booking date", args: 1, run: s.date},
		"meal":      {usage: "meal <breakfast|lunch|dinner|snack>", help: "set the meal", args: 1, run: s.meal},
		"servings":  {usage: "servings <n>", help: "set the servings", args: 1, run: s.servings},
		"notes":     {usage: "notes <text>", help: "set booking notes", run: s.notes},
		"confirm":   {usage: "confirm", help: "book the recipe", notifies: true, run: s.confirm},
		"close":     {usage: "close", help: "close the booking dialog", run: s.closeDialog},
		"fav":       {usage: "fav <id>", help: "toggle a favorite", args: 1, notifies: true, run: s.fav},
		"favorites": {usage: "favorites", help: "list favorites", run: s.favorites},
		"unfav":     {usage: "unfav <id>", help: "remove a favorite", args: 1, notifies: true, run: s.unfav},
		"bookings":  {usage: "bookings", help: "list bookings", run: s.bookings},
		"cancel":    {usage: "cancel <id>", help: "cancel a booking", args: 1, notifies: true, run: s.cancel},
		"complete":  {usage: "complete <id>", help: "mark a booking as cooked", args: 1, notifies: true, run: s.complete},
		"rate":      {usage: "rate <id> <score> [review]", help: "rate a recipe from 1 to 5", args: 2, notifies: true, run: s.rate},
		"signin":    {usage: "signin <email> <password>", help: "sign in", args: 2, auth: true, run: s.signIn},
		"signup":    {usage: "signup <email> <password> [full name]", help: "create an account", args: 2, auth: true, run: s.signUp},
		"signout":   {usage: "signout", help: "sign out", run: s.signOut},
		"help":      {usage: "help", help: "show this list", run: s.help},
		"quit":      {usage: "quit", help: "leave the planner", run: s.quit},
	}
	return s
}

// Run reads commands from in until quit or end of input
func (s *shell) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	s.prompt()
	for scanner.Scan() {
		s.Exec(ctx, scanner.Text())
		if s.done || ctx.Err() != nil {
			return ctx.Err()
		}
		s.prompt()
	}
	return scanner.Err()
}

func (s *shell) prompt() {
	if s.page.Session.IsAuthenticated() {
		fmt.Fprintf(s.out, "savorly (%s)> ", s.page.Session.DisplayName())
		return
	}
	fmt.Fprint(s.out, "savorly> ")
}

// Exec runs one command line
func (s *shell) Exec(ctx context.Context, line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	name, args := strings.ToLower(fields[0]), fields[1:]
	if name == "exit" {
		name = "quit"
	}
	cmd, ok := s.commands[name]
	if !ok {
		fmt.Fprintf(s.out, "Unknown command %q, try help\n", name)
		return
	}
	if len(args) < cmd.args {
		fmt.Fprintf(s.out, "Usage: %s\n", cmd.usage)
		return
	}

	if !cmd.auth {
		// Any other command dismisses a sign-in prompt left open
		s.page.AuthOpen = false
	}
	err := cmd.run(ctx, args)
	if !cmd.auth && s.page.AuthOpen {
		fmt.Fprintln(s.out, "Sign in to continue: signin <email> <password> or signup <email> <password> [full name]")
		return
	}
	if err != nil && !cmd.notifies {
		fmt.Fprintf(s.out, "Error: %s\n", planner.Message(err))
	}
}

func (s *shell) table(write func(w io.Writer)) {
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	write(tw)
	_ = tw.Flush()
}

func rating(r *float64, count int) string {
	if r == nil {
		return "no ratings"
	}
	if count > 0 {
		return fmt.Sprintf("★ %.1f (%d)", *r, count)
	}
	return fmt.Sprintf("★ %.1f", *r)
}

func (s *shell) printRecipes(ctx context.Context, recipes []inbound.RecipeDTO) {
	if len(recipes) == 0 {
		fmt.Fprintln(s.out, "No recipes found")
		return
	}
	favorites, err := s.page.FavoriteIDs(ctx)
	if err != nil {
		favorites = view.FavoriteSet{}
	}
	s.table(func(w io.Writer) {
		for _, r := range recipes {
			s.ids.add(r.ID)
			mark := " "
			if favorites.Has(r.ID) {
				mark = "♥"
			}
			fmt.Fprintf(w, "%s\t%s %s\t%s\t%d min\t%s\n",
				shortID(r.ID), mark, r.Title, r.Cuisine, r.TotalTime(), rating(r.Rating, r.RatingCount))
		}
	})
}

func (s *shell) recipes(ctx context.Context, _ []string) error {
	if s.page.ShowPopular() {
		if err := s.popular(ctx, nil); err != nil {
			return err
		}
		fmt.Fprintln(s.out)
		fmt.Fprintln(s.out, "All recipes")
	} else {
		fmt.Fprintf(s.out, "Results for %q\n", s.page.Search.Applied)
	}
	recipes, err := s.page.Recipes(ctx)
	if err != nil {
		return err
	}
	s.printRecipes(ctx, recipes)
	return nil
}

func (s *shell) popular(ctx context.Context, _ []string) error {
	recipes, err := s.page.Popular(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Popular")
	s.printRecipes(ctx, recipes)
	return nil
}

func (s *shell) search(ctx context.Context, args []string) error {
	s.page.Search.Type(strings.Join(args, " "))
	s.page.Search.Submit()
	return s.recipes(ctx, nil)
}

func (s *shell) typeDraft(_ context.Context, args []string) error {
	s.page.Search.Type(strings.Join(args, " "))
	return nil
}

func (s *shell) submit(ctx context.Context, _ []string) error {
	s.page.Search.Submit()
	return s.recipes(ctx, nil)
}

func (s *shell) clear(ctx context.Context, _ []string) error {
	s.page.Search.Clear()
	return s.recipes(ctx, nil)
}

func (s *shell) tag(ctx context.Context, args []string) error {
	name := strings.Join(args, " ")
	for _, tag := range view.QuickTags {
		if strings.EqualFold(tag, name) {
			s.page.Search.ApplyTag(tag)
			return s.recipes(ctx, nil)
		}
	}
	fmt.Fprintf(s.out, "Quick tags: %s\n", strings.Join(view.QuickTags, ", "))
	return nil
}

func (s *shell) recipe(ctx context.Context, arg string) (*inbound.RecipeDTO, error) {
	id, err := s.ids.resolve(arg)
	if err != nil {
		return nil, err
	}
	r, err := s.page.Recipe(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		fmt.Fprintln(s.out, "Recipe not found")
	}
	return r, nil
}

func (s *shell) show(ctx context.Context, args []string) error {
	r, err := s.recipe(ctx, args[0])
	if err != nil || r == nil {
		return err
	}
	fmt.Fprintf(s.out, "%s\n%s\n", r.Title, r.Description)
	fmt.Fprintf(s.out, "%s · %s · prep %d min · cook %d min · serves %d · %s\n",
		r.Cuisine, r.Difficulty, r.PrepTime, r.CookTime, r.Servings, rating(r.Rating, r.RatingCount))
	if r.Calories != nil {
		fmt.Fprintf(s.out, "%d kcal\n", *r.Calories)
	}
	if len(r.Ingredients) > 0 {
		fmt.Fprintln(s.out, "Ingredients:")
		for _, ing := range r.Ingredients {
			fmt.Fprintf(s.out, "  - %s\n", ing)
		}
	}
	if len(r.Instructions) > 0 {
		fmt.Fprintln(s.out, "Instructions:")
		for i, step := range r.Instructions {
			fmt.Fprintf(s.out, "  %d. %s\n", i+1, step)
		}
	}
	return nil
}

func (s *shell) book(ctx context.Context, args []string) error {
	if !s.page.Session.IsAuthenticated() {
		// Let the page open the auth gate without a lookup
		s.page.RequestBooking(view.RecipeRef{})
		return nil
	}
	r, err := s.recipe(ctx, args[0])
	if err != nil || r == nil {
		return err
	}
	if s.page.RequestBooking(view.RefFromRecipe(*r)) {
		s.printDialog()
	}
	return nil
}

func (s *shell) printDialog() {
	d := &s.page.Dialog
	if d.Recipe() == nil {
		fmt.Fprintln(s.out, "No booking in progress, use book <id>")
		return
	}
	fmt.Fprintf(s.out, "Booking %s: %s %s %s, %d servings",
		d.Recipe().Title, view.DateLabel(d.Date(), s.now()), view.MealEmoji(d.MealType()), d.MealType(), d.Servings())
	if d.Notes() != "" {
		fmt.Fprintf(s.out, ", notes: %s", d.Notes())
	}
	fmt.Fprintln(s.out, ". Type confirm to book.")
}

func (s *shell) withDialog(change func() error) error {
	if s.page.Dialog.State() != view.DialogOpen {
		fmt.Fprintln(s.out, "No booking in progress, use book <id>")
		return nil
	}
	if err := change(); err != nil {
		return err
	}
	s.printDialog()
	return nil
}

func (s *shell) date(_ context.Context, args []string) error {
	return s.withDialog(func() error { return s.page.Dialog.SetDate(args[0]) })
}

func (s *shell) meal(_ context.Context, args []string) error {
	return s.withDialog(func() error { return s.page.Dialog.SetMealType(args[0]) })
}

func (s *shell) servings(_ context.Context, args []string) error {
	return s.withDialog(func() error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("servings must be a number")
		}
		s.page.Dialog.SetServings(n)
		return nil
	})
}

func (s *shell) notes(_ context.Context, args []string) error {
	return s.withDialog(func() error {
		s.page.Dialog.SetNotes(strings.Join(args, " "))
		return nil
	})
}

func (s *shell) confirm(ctx context.Context, _ []string) error {
	if s.page.Dialog.State() != view.DialogOpen {
		fmt.Fprintln(s.out, "No booking in progress, use book <id>")
		return nil
	}
	return s.page.ConfirmBooking(ctx)
}

func (s *shell) closeDialog(context.Context, []string) error {
	s.page.Dialog.Close()
	return nil
}

func (s *shell) withID(arg string, action func(id uuid.UUID) error) error {
	if !s.page.Session.IsAuthenticated() {
		// The page opens the auth gate
		return action(uuid.Nil)
	}
	id, err := s.ids.resolve(arg)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %s\n", err)
		return nil
	}
	return action(id)
}

func (s *shell) fav(ctx context.Context, args []string) error {
	return s.withID(args[0], func(id uuid.UUID) error { return s.page.ToggleFavorite(ctx, id) })
}

func (s *shell) unfav(ctx context.Context, args []string) error {
	return s.withID(args[0], func(id uuid.UUID) error { return s.page.RemoveFavorite(ctx, id) })
}

func (s *shell) cancel(ctx context.Context, args []string) error {
	return s.withID(args[0], func(id uuid.UUID) error { return s.page.CancelBooking(ctx, id) })
}

func (s *shell) complete(ctx context.Context, args []string) error {
	return s.withID(args[0], func(id uuid.UUID) error { return s.page.CompleteBooking(ctx, id) })
}

func (s *shell) rate(ctx context.Context, args []string) error {
	score, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintln(s.out, "Score must be a number from 1 to 5")
		return nil
	}
	review := strings.Join(args[2:], " ")
	return s.withID(args[0], func(id uuid.UUID) error { return s.page.Rate(ctx, id, score, review) })
}

func (s *shell) favorites(ctx context.Context, _ []string) error {
	if !s.page.OpenFavorites() {
		return nil
	}
	favorites, err := s.page.Favorites(ctx)
	if err != nil {
		return err
	}
	if len(favorites) == 0 {
		fmt.Fprintln(s.out, "No favorites yet")
		return nil
	}
	s.table(func(w io.Writer) {
		for _, f := range favorites {
			s.ids.add(f.RecipeID)
			if f.Recipe == nil {
				fmt.Fprintf(w, "%s\t(recipe unavailable)\n", shortID(f.RecipeID))
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s\tserves %d\t%s\n",
				shortID(f.RecipeID), f.Recipe.Title, f.Recipe.Cuisine, f.Recipe.Servings, rating(f.Recipe.Rating, 0))
		}
	})
	return nil
}

func (s *shell) bookings(ctx context.Context, _ []string) error {
	if !s.page.OpenBookings() {
		return nil
	}
	groups, err := s.page.Bookings(ctx)
	if err != nil {
		return err
	}
	if len(groups.Upcoming) == 0 && len(groups.Completed) == 0 {
		fmt.Fprintln(s.out, "No bookings yet")
		return nil
	}
	s.printBookings("Upcoming", groups.Upcoming)
	s.printBookings("Completed", groups.Completed)
	return nil
}

func (s *shell) printBookings(title string, bookings []inbound.BookingDTO) {
	if len(bookings) == 0 {
		return
	}
	fmt.Fprintln(s.out, title)
	today := s.now()
	s.table(func(w io.Writer) {
		for _, b := range bookings {
			s.ids.add(b.ID, b.RecipeID)
			name := "(recipe unavailable)"
			if b.Recipe != nil {
				name = b.Recipe.Title
			}
			fmt.Fprintf(w, "%s\t%s\t%s %s\t%s\t%d servings\n",
				shortID(b.ID), view.DateLabel(b.ScheduledDate, today), view.MealEmoji(b.MealType), b.MealType, name, b.Servings)
		}
	})
}

func (s *shell) signIn(ctx context.Context, args []string) error {
	s.page.OpenAuth()
	if err := s.page.SignIn(ctx, args[0], args[1]); err != nil {
		fmt.Fprintf(s.out, "Sign-in failed: %s\n", s.page.AuthError)
		return nil
	}
	fmt.Fprintf(s.out, "Welcome back, %s\n", s.page.Session.DisplayName())
	return nil
}

func (s *shell) signUp(ctx context.Context, args []string) error {
	s.page.OpenAuth()
	if err := s.page.SignUp(ctx, args[0], args[1], strings.Join(args[2:], " ")); err != nil {
		fmt.Fprintf(s.out, "Sign-up failed: %s\n", s.page.AuthError)
		return nil
	}
	fmt.Fprintf(s.out, "Welcome, %s\n", s.page.Session.DisplayName())
	return nil
}

func (s *shell) signOut(ctx context.Context, _ []string) error {
	if !s.page.Session.IsAuthenticated() {
		fmt.Fprintln(s.out, "Not signed in")
		return nil
	}
	err := s.page.SignOut(ctx)
	fmt.Fprintln(s.out, "Signed out")
	return err
}

func (s *shell) help(context.Context, []string) error {
	names := make([]string, 0, len(s.commands))
	for name := range s.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	s.table(func(w io.Writer) {
		for _, name := range names {
			fmt.Fprintf(w, "  %s\t%s\n", s.commands[name].usage, s.commands[name].help)
		}
	})
	return nil
}

func (s *shell) quit(context.Context, []string) error {
	s.done = true
	return nil
}
