package view

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/savorly/savorly/internal/application/planner"
	"github.com/savorly/savorly/internal/application/session"
	"github.com/savorly/savorly/internal/ports/inbound"
	"github.com/savorly/savorly/internal/ports/outbound"
)

// Page is the planner's single screen. Actions that need a user open the
// auth dialog when nobody is signed in; the action itself is dropped.
type Page struct {
	planner *planner.Planner
	now     func() time.Time

	Session       session.Session
	Search        Search
	Dialog        BookingDialog
	AuthOpen      bool
	AuthError     string
	BookingsOpen  bool
	FavoritesOpen bool

	favorites favoriteMemo
}

type favoriteMemo struct {
	user     uuid.UUID
	revision uint64
	set      FavoriteSet
	builds   int
}

// NewPage creates a signed-out page
func NewPage(p *planner.Planner) *Page {
	return &Page{planner: p, now: time.Now, Session: session.None}
}

func (p *Page) today() time.Time {
	return p.now()
}

// Recipes lists recipes for the applied search term
func (p *Page) Recipes(ctx context.Context) ([]inbound.RecipeDTO, error) {
	return p.planner.Recipes.List(ctx, p.Search.Applied)
}

// ShowPopular reports whether the popular section is shown, which it is
// only while no search is applied
func (p *Page) ShowPopular() bool {
	return !p.Search.Active()
}

// Popular lists the popular recipes
func (p *Page) Popular(ctx context.Context) ([]inbound.RecipeDTO, error) {
	return p.planner.Recipes.Popular(ctx)
}

// Recipe returns one recipe or nil
func (p *Page) Recipe(ctx context.Context, id uuid.UUID) (*inbound.RecipeDTO, error) {
	return p.planner.Recipes.Get(ctx, id)
}

// FavoriteIDs returns the favorite set. It is rebuilt only when the
// favorites query produced a new result.
func (p *Page) FavoriteIDs(ctx context.Context) (FavoriteSet, error) {
	if !p.Session.IsAuthenticated() {
		return FavoriteSet{}, nil
	}
	favorites, entry, err := p.planner.Favorites.ListEntry(ctx, p.Session)
	if err != nil {
		return nil, err
	}
	m := &p.favorites
	if m.set == nil || m.user != p.Session.UserID || m.revision != entry.Revision {
		m.set = NewFavoriteSet(favorites)
		m.user = p.Session.UserID
		m.revision = entry.Revision
		m.builds++
	}
	return m.set, nil
}

// Favorites lists the user's favorites for the favorites sheet
func (p *Page) Favorites(ctx context.Context) ([]inbound.FavoriteDTO, error) {
	return p.planner.Favorites.List(ctx, p.Session)
}

// Bookings returns the bookings sheet sections
func (p *Page) Bookings(ctx context.Context) (BookingGroups, error) {
	bookings, err := p.planner.Bookings.List(ctx, p.Session)
	if err != nil {
		return BookingGroups{}, err
	}
	return GroupBookings(bookings), nil
}

// RequestBooking opens the booking dialog for recipe. It reports false and
// opens the auth dialog when nobody is signed in.
func (p *Page) RequestBooking(recipe RecipeRef) bool {
	if !p.gate() {
		return false
	}
	p.Dialog.Open(recipe, p.today())
	return true
}

// ConfirmBooking submits the dialog; it closes on success
func (p *Page) ConfirmBooking(ctx context.Context) error {
	return p.Dialog.Confirm(ctx, func(ctx context.Context, req outbound.BookingRequest) error {
		_, err := p.planner.Bookings.Create(ctx, p.Session, req)
		return err
	})
}

// ToggleFavorite flips the membership of recipeID
func (p *Page) ToggleFavorite(ctx context.Context, recipeID uuid.UUID) error {
	if !p.gate() {
		return nil
	}
	set, err := p.FavoriteIDs(ctx)
	if err != nil {
		return err
	}
	_, err = p.planner.Favorites.Toggle(ctx, p.Session, recipeID, set.Has(recipeID))
	return err
}

// RemoveFavorite removes a recipe from the favorites sheet
func (p *Page) RemoveFavorite(ctx context.Context, recipeID uuid.UUID) error {
	if !p.gate() {
		return nil
	}
	_, err := p.planner.Favorites.Toggle(ctx, p.Session, recipeID, true)
	return err
}

// BookFromFavorites closes the favorites sheet and opens the booking dialog
func (p *Page) BookFromFavorites(recipe RecipeRef) bool {
	p.FavoritesOpen = false
	return p.RequestBooking(recipe)
}

// CancelBooking cancels a booking from the bookings sheet
func (p *Page) CancelBooking(ctx context.Context, id uuid.UUID) error {
	if !p.gate() {
		return nil
	}
	return p.planner.Bookings.Cancel(ctx, p.Session, id)
}

// CompleteBooking marks a booking as cooked from the bookings sheet
func (p *Page) CompleteBooking(ctx context.Context, id uuid.UUID) error {
	if !p.gate() {
		return nil
	}
	return p.planner.Bookings.Complete(ctx, p.Session, id)
}

// Rate rates a recipe
func (p *Page) Rate(ctx context.Context, recipeID uuid.UUID, score int, review string) error {
	if !p.gate() {
		return nil
	}
	return p.planner.Recipes.Rate(ctx, p.Session, recipeID, score, review)
}

// OpenBookings shows the bookings sheet
func (p *Page) OpenBookings() bool {
	if !p.gate() {
		return false
	}
	p.BookingsOpen = true
	return true
}

// OpenFavorites shows the favorites sheet
func (p *Page) OpenFavorites() bool {
	if !p.gate() {
		return false
	}
	p.FavoritesOpen = true
	return true
}

// OpenAuth shows the sign-in dialog
func (p *Page) OpenAuth() {
	p.AuthOpen = true
	p.AuthError = ""
}

// SignIn signs in and closes the auth dialog. Failures stay in AuthError.
func (p *Page) SignIn(ctx context.Context, email, password string) error {
	return p.authenticate(func() (session.Session, error) {
		return p.planner.Auth.SignIn(ctx, email, password)
	})
}

// SignUp creates an account and closes the auth dialog
func (p *Page) SignUp(ctx context.Context, email, password, fullName string) error {
	return p.authenticate(func() (session.Session, error) {
		return p.planner.Auth.SignUp(ctx, email, password, fullName)
	})
}

// SignOut ends the session and closes everything that belonged to it
func (p *Page) SignOut(ctx context.Context) error {
	sess, err := p.planner.Auth.SignOut(ctx, p.Session)
	p.Session = sess
	p.Dialog.Close()
	p.BookingsOpen = false
	p.FavoritesOpen = false
	p.favorites = favoriteMemo{}
	return err
}

func (p *Page) authenticate(fn func() (session.Session, error)) error {
	p.AuthError = ""
	sess, err := fn()
	if err != nil {
		p.AuthOpen = true
		p.AuthError = planner.Message(err)
		return err
	}
	p.Session = sess
	p.AuthOpen = false
	return nil
}

// gate reports whether a user is signed in and opens the auth dialog if not
func (p *Page) gate() bool {
	if p.Session.IsAuthenticated() {
		return true
	}
	p.OpenAuth()
	return false
}
