package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/savorly/savorly/internal/application/planner"
	"github.com/savorly/savorly/internal/application/querycache"
	"github.com/savorly/savorly/internal/application/view"
	"github.com/savorly/savorly/internal/infrastructure/config"
	"github.com/savorly/savorly/internal/infrastructure/http/apiclient"
	"github.com/savorly/savorly/internal/infrastructure/notify"
	"github.com/savorly/savorly/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

type ShellTestSuite struct {
	suite.Suite
	out   *bytes.Buffer
	shell *shell
	ctx   context.Context
}

func (s *ShellTestSuite) SetupTest() {
	api := testutils.StartTestAPI(s.T())
	log := zaptest.NewLogger(s.T(), zaptest.Level(zap.WarnLevel))

	s.out = &bytes.Buffer{}
	client := apiclient.NewAPIClient(config.ClientConfig{APIURL: api.URL(), Timeout: 5 * time.Second}, log)
	p := planner.New(client, querycache.New(time.Minute, log), notify.NewConsoleNotifier(s.out, log), log)
	s.shell = newShell(view.NewPage(p), s.out)
	s.ctx = context.Background()
}

// exec runs a line and returns what it printed
func (s *ShellTestSuite) exec(line string) string {
	s.out.Reset()
	s.shell.Exec(s.ctx, line)
	return s.out.String()
}

// firstID returns the short id at the start of the first listing row
// containing text
func (s *ShellTestSuite) firstID(listing, text string) string {
	for _, line := range strings.Split(listing, "\n") {
		if strings.Contains(line, text) {
			return strings.Fields(line)[0]
		}
	}
	s.FailNow("no row contains " + text)
	return ""
}

func (s *ShellTestSuite) TestBrowseAndSearch() {
	out := s.exec("recipes")
	s.Contains(out, "Popular")
	s.Contains(out, "All recipes")
	s.Contains(out, "Spaghetti Carbonara")

	out = s.exec("search thai")
	s.Contains(out, `Results for "thai"`)
	s.NotContains(out, "Popular")
	s.NotContains(out, "Carbonara")

	out = s.exec("tag quick & easy")
	s.Contains(out, `Results for "Quick & Easy"`)

	out = s.exec("clear")
	s.Contains(out, "Popular")

	id := s.firstID(s.exec("recipes"), "Carbonara")
	s.Len(id, shortIDLength)
	s.Contains(s.exec("show "+id), "Ingredients:")
}

func (s *ShellTestSuite) TestSignedOutActionsAskToSignIn() {
	id := s.firstID(s.exec("recipes"), "Carbonara")

	s.Contains(s.exec("book "+id), "Sign in to continue")
	s.Contains(s.exec("fav "+id), "Sign in to continue")
	s.True(s.shell.page.AuthOpen)

	s.Contains(s.exec("signin nobody@example.com wrong-pass"), "Sign-in failed")
}

func (s *ShellTestSuite) TestBookFavoriteAndComplete() {
	id := s.firstID(s.exec("recipes"), "Carbonara")
	s.Contains(s.exec("signup cook@example.com secret-pass Home Cook"), "Welcome, Home Cook")

	out := s.exec("book " + id)
	s.Contains(out, "Booking Classic Spaghetti Carbonara: Tomorrow")
	s.Contains(out, "dinner")
	s.Contains(s.exec("servings 30"), "20 servings")
	s.Contains(s.exec("meal lunch"), "lunch")
	s.Contains(s.exec("confirm"), planner.MsgBooked)

	s.exec("book " + id)
	s.exec("meal lunch")
	s.Contains(s.exec("confirm"), planner.MsgAlreadyBooked)
	s.Equal(view.DialogOpen, s.shell.page.Dialog.State())
	s.exec("close")

	bookings := s.exec("bookings")
	s.Contains(bookings, "Upcoming")
	bookingID := s.firstID(bookings, "Carbonara")
	s.Contains(s.exec("complete "+bookingID), planner.MsgCompleted)
	s.Contains(s.exec("bookings"), "Completed")
	s.Contains(s.exec("cancel "+bookingID), "✗")

	s.Contains(s.exec("fav "+id), planner.MsgFavoriteAdded)
	s.Contains(s.exec("recipes"), "♥ Classic Spaghetti Carbonara")
	s.Contains(s.exec("favorites"), "Spaghetti Carbonara")
	s.Contains(s.exec("fav "+id), planner.MsgFavoriteRemoved)
	s.Contains(s.exec("favorites"), "No favorites yet")

	s.Contains(s.exec("rate "+id+" 5 lovely"), planner.MsgRated)
	s.Contains(s.exec("signout"), "Signed out")
	s.Contains(s.exec("bookings"), "Sign in to continue")
}

func (s *ShellTestSuite) TestUsageAndUnknownCommands() {
	s.Contains(s.exec("rate"), "Usage: rate <id> <score> [review]")
	s.Contains(s.exec("dance"), `Unknown command "dance"`)
	s.Contains(s.exec("help"), "signup <email> <password> [full name]")
	s.Contains(s.exec("date 2030-01-02"), "No booking in progress")

	s.exec("quit")
	s.True(s.shell.done)
}

func TestShellSuite(t *testing.T) {
	suite.Run(t, new(ShellTestSuite))
}

func TestIDIndex(t *testing.T) {
	x := newIDIndex()
	a := uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001")
	b := uuid.MustParse("aaaaaaaa-1111-0000-0000-000000000002")
	x.add(a, b, uuid.Nil)

	got, err := x.resolve(a.String())
	require.NoError(t, err)
	assert.Equal(t, a, got)

	got, err = x.resolve("AAAAAAAA-1")
	require.NoError(t, err)
	assert.Equal(t, b, got)

	_, err = x.resolve("aaaaaaaa")
	assert.ErrorContains(t, err, "ambiguous")
	_, err = x.resolve("abc")
	assert.ErrorContains(t, err, "too short")
	_, err = x.resolve("bbbbbbbb")
	assert.ErrorContains(t, err, "no listed id")
}
