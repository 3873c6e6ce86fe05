// Package testutils provides mock implementations for testing
package testutils

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/savorly/savorly/internal/domain/booking"
	"github.com/savorly/savorly/internal/domain/favorite"
	"github.com/savorly/savorly/internal/domain/recipe"
	"github.com/savorly/savorly/internal/domain/shared"
	"github.com/savorly/savorly/internal/domain/user"
	"github.com/savorly/savorly/internal/ports/inbound"
	"github.com/savorly/savorly/internal/ports/outbound"
	"github.com/stretchr/testify/mock"
)

// MockRecipeRepository provides a mock implementation of RecipeRepository
type MockRecipeRepository struct {
	mock.Mock
}

func (m *MockRecipeRepository) Create(ctx context.Context, r *recipe.Recipe) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*recipe.Recipe)
	return r, args.Error(1)
}

func (m *MockRecipeRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*recipe.Recipe, error) {
	args := m.Called(ctx, ids)
	rs, _ := args.Get(0).([]*recipe.Recipe)
	return rs, args.Error(1)
}

func (m *MockRecipeRepository) Search(ctx context.Context, term string) ([]*recipe.Recipe, error) {
	args := m.Called(ctx, term)
	rs, _ := args.Get(0).([]*recipe.Recipe)
	return rs, args.Error(1)
}

func (m *MockRecipeRepository) FindPopular(ctx context.Context, limit int) ([]*recipe.Recipe, error) {
	args := m.Called(ctx, limit)
	rs, _ := args.Get(0).([]*recipe.Recipe)
	return rs, args.Error(1)
}

func (m *MockRecipeRepository) UpdateRatingSummary(ctx context.Context, id uuid.UUID, summary recipe.RatingSummary) error {
	return m.Called(ctx, id, summary).Error(0)
}

// MockRatingRepository provides a mock implementation of RatingRepository
type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) Upsert(ctx context.Context, r *recipe.Rating) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRatingRepository) Summary(ctx context.Context, recipeID uuid.UUID) (recipe.RatingSummary, error) {
	args := m.Called(ctx, recipeID)
	return args.Get(0).(recipe.RatingSummary), args.Error(1)
}

// MockBookingRepository provides a mock implementation of BookingRepository
type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBookingRepository) Update(ctx context.Context, b *booking.Booking, previous booking.Status) error {
	return m.Called(ctx, b, previous).Error(0)
}

func (m *MockBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*booking.Booking)
	return b, args.Error(1)
}

func (m *MockBookingRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*booking.Booking, error) {
	args := m.Called(ctx, userID)
	bs, _ := args.Get(0).([]*booking.Booking)
	return bs, args.Error(1)
}

// MockFavoriteRepository provides a mock implementation of FavoriteRepository
type MockFavoriteRepository struct {
	mock.Mock
}

func (m *MockFavoriteRepository) Add(ctx context.Context, f *favorite.Favorite) (bool, error) {
	args := m.Called(ctx, f)
	return args.Bool(0), args.Error(1)
}

func (m *MockFavoriteRepository) Remove(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, recipeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFavoriteRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*favorite.Favorite, error) {
	args := m.Called(ctx, userID)
	fs, _ := args.Get(0).([]*favorite.Favorite)
	return fs, args.Error(1)
}

// MockUserRepository provides a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

// MockTokenService provides a mock implementation of TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) IssueTokens(ctx context.Context, userID uuid.UUID, email string) (*outbound.TokenPair, error) {
	args := m.Called(ctx, userID, email)
	p, _ := args.Get(0).(*outbound.TokenPair)
	return p, args.Error(1)
}

func (m *MockTokenService) ValidateAccessToken(ctx context.Context, token string) (*outbound.TokenClaims, error) {
	args := m.Called(ctx, token)
	c, _ := args.Get(0).(*outbound.TokenClaims)
	return c, args.Error(1)
}

func (m *MockTokenService) RevokeToken(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

// MockDataService provides a mock implementation of DataService
type MockDataService struct {
	mock.Mock
}

func (m *MockDataService) SignUp(ctx context.Context, email, password, fullName string) (*inbound.AuthResponse, error) {
	args := m.Called(ctx, email, password, fullName)
	r, _ := args.Get(0).(*inbound.AuthResponse)
	return r, args.Error(1)
}

func (m *MockDataService) SignIn(ctx context.Context, email, password string) (*inbound.AuthResponse, error) {
	args := m.Called(ctx, email, password)
	r, _ := args.Get(0).(*inbound.AuthResponse)
	return r, args.Error(1)
}

func (m *MockDataService) SignOut(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockDataService) ListRecipes(ctx context.Context, search string) ([]inbound.RecipeDTO, error) {
	args := m.Called(ctx, search)
	r, _ := args.Get(0).([]inbound.RecipeDTO)
	return r, args.Error(1)
}

func (m *MockDataService) ListPopular(ctx context.Context) ([]inbound.RecipeDTO, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).([]inbound.RecipeDTO)
	return r, args.Error(1)
}

func (m *MockDataService) GetRecipe(ctx context.Context, id uuid.UUID) (*inbound.RecipeDTO, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*inbound.RecipeDTO)
	return r, args.Error(1)
}

func (m *MockDataService) RateRecipe(ctx context.Context, token string, req outbound.RateRequest) (*inbound.RatingDTO, error) {
	args := m.Called(ctx, token, req)
	r, _ := args.Get(0).(*inbound.RatingDTO)
	return r, args.Error(1)
}

func (m *MockDataService) ListBookings(ctx context.Context, token string) ([]inbound.BookingDTO, error) {
	args := m.Called(ctx, token)
	r, _ := args.Get(0).([]inbound.BookingDTO)
	return r, args.Error(1)
}

func (m *MockDataService) CreateBooking(ctx context.Context, token string, req outbound.BookingRequest) (*inbound.BookingDTO, error) {
	args := m.Called(ctx, token, req)
	r, _ := args.Get(0).(*inbound.BookingDTO)
	return r, args.Error(1)
}

func (m *MockDataService) CancelBooking(ctx context.Context, token string, id uuid.UUID) (*inbound.BookingDTO, error) {
	args := m.Called(ctx, token, id)
	r, _ := args.Get(0).(*inbound.BookingDTO)
	return r, args.Error(1)
}

func (m *MockDataService) CompleteBooking(ctx context.Context, token string, id uuid.UUID) (*inbound.BookingDTO, error) {
	args := m.Called(ctx, token, id)
	r, _ := args.Get(0).(*inbound.BookingDTO)
	return r, args.Error(1)
}

func (m *MockDataService) ListFavorites(ctx context.Context, token string) ([]inbound.FavoriteDTO, error) {
	args := m.Called(ctx, token)
	r, _ := args.Get(0).([]inbound.FavoriteDTO)
	return r, args.Error(1)
}

func (m *MockDataService) AddFavorite(ctx context.Context, token string, recipeID uuid.UUID) (*inbound.FavoriteStateDTO, error) {
	args := m.Called(ctx, token, recipeID)
	r, _ := args.Get(0).(*inbound.FavoriteStateDTO)
	return r, args.Error(1)
}

func (m *MockDataService) RemoveFavorite(ctx context.Context, token string, recipeID uuid.UUID) (*inbound.FavoriteStateDTO, error) {
	args := m.Called(ctx, token, recipeID)
	r, _ := args.Get(0).(*inbound.FavoriteStateDTO)
	return r, args.Error(1)
}

// RecordingPublisher keeps every published event for later inspection
type RecordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

// Publish records the events
func (p *RecordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
}

// Names returns the names of the recorded events in order
func (p *RecordingPublisher) Names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, len(p.events))
	for i, e := range p.events {
		names[i] = e.EventName()
	}
	return names
}

// PassthroughImages resolves every image reference to itself
type PassthroughImages struct{}

// ResolveImageURL returns ref unchanged
func (PassthroughImages) ResolveImageURL(_ context.Context, ref string) string {
	return ref
}

// RecordingNotifier keeps every notification for later inspection
type RecordingNotifier struct {
	mu            sync.Mutex
	notifications []outbound.Notification
}

// Notify records the notification
func (n *RecordingNotifier) Notify(note outbound.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notifications = append(n.notifications, note)
}

// All returns the recorded notifications
func (n *RecordingNotifier) All() []outbound.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]outbound.Notification(nil), n.notifications...)
}

// Last returns the most recent notification, or the zero value
func (n *RecordingNotifier) Last() outbound.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.notifications) == 0 {
		return outbound.Notification{}
	}
	return n.notifications[len(n.notifications)-1]
}

var (
	_ outbound.RecipeRepository   = (*MockRecipeRepository)(nil)
	_ outbound.RatingRepository   = (*MockRatingRepository)(nil)
	_ outbound.BookingRepository  = (*MockBookingRepository)(nil)
	_ outbound.FavoriteRepository = (*MockFavoriteRepository)(nil)
	_ outbound.UserRepository     = (*MockUserRepository)(nil)
	_ outbound.TokenService       = (*MockTokenService)(nil)
	_ outbound.DataService        = (*MockDataService)(nil)
	_ outbound.EventPublisher     = (*RecordingPublisher)(nil)
	_ outbound.ImageResolver      = PassthroughImages{}
	_ outbound.Notifier           = (*RecordingNotifier)(nil)
)
