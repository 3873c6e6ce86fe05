// Package booking provides the application layer for meal planning
package booking

import (
	"context"
	stderrors "errors"

	"github.com/google/uuid"
	recipeapp "github.com/savorly/savorly/internal/application/recipe"
	"github.com/savorly/savorly/internal/domain/booking"
	"github.com/savorly/savorly/internal/domain/recipe"
	"github.com/savorly/savorly/internal/ports/inbound"
	"github.com/savorly/savorly/internal/ports/outbound"
	"github.com/savorly/savorly/pkg/errors"
	"go.uber.org/zap"
)

// BookingService implements the booking use cases
type BookingService struct {
	bookingRepo outbound.BookingRepository
	recipeRepo  outbound.RecipeRepository
	images      outbound.ImageResolver
	events      outbound.EventPublisher
	logger      *zap.Logger
}

// NewBookingService creates a new booking service
func NewBookingService(
	bookingRepo outbound.BookingRepository,
	recipeRepo outbound.RecipeRepository,
	images outbound.ImageResolver,
	events outbound.EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		recipeRepo:  recipeRepo,
		images:      images,
		events:      events,
		logger:      logger.Named("booking-service"),
	}
}

// ListBookings returns the user's bookings, earliest scheduled date first
func (s *BookingService) ListBookings(ctx context.Context, userID uuid.UUID) ([]inbound.BookingDTO, error) {
	bookings, err := s.bookingRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("list bookings", err)
	}

	ids := make([]uuid.UUID, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.RecipeID())
	}
	recipes, err := s.recipesByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	dtos := make([]inbound.BookingDTO, 0, len(bookings))
	for _, b := range bookings {
		dtos = append(dtos, s.toDTO(ctx, b, recipes[b.RecipeID()]))
	}
	return dtos, nil
}

// CreateBooking schedules a recipe into a meal slot
func (s *BookingService) CreateBooking(ctx context.Context, cmd inbound.CreateBookingCommand) (*inbound.BookingDTO, error) {
	s.logger.Info("Creating booking",
		zap.String("user_id", cmd.UserID.String()),
		zap.String("recipe_id", cmd.RecipeID.String()),
		zap.String("scheduled_date", cmd.ScheduledDate),
		zap.String("meal_type", cmd.MealType),
	)

	date, err := booking.ParseDate(cmd.ScheduledDate)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	meal, err := booking.ParseMealType(cmd.MealType)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	recipeEntity, err := s.recipeRepo.FindByID(ctx, cmd.RecipeID)
	if stderrors.Is(err, outbound.ErrNotFound) {
		return nil, errors.NewRecipeNotFoundError(cmd.RecipeID.String())
	}
	if err != nil {
		return nil, errors.NewDatabaseError("find recipe", err)
	}

	b, err := booking.NewBooking(cmd.UserID, cmd.RecipeID, date, meal, cmd.Servings, cmd.Notes)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.bookingRepo.Create(ctx, b); err != nil {
		if errors.Is(err, errors.CodeUniqueViolation) {
			s.logger.Info("Booking slot already taken",
				zap.String("user_id", cmd.UserID.String()),
				zap.String("recipe_id", cmd.RecipeID.String()),
			)
			return nil, err
		}
		return nil, errors.NewDatabaseError("create booking", err)
	}

	s.events.Publish(ctx, b.Events()...)

	dto := s.toDTO(ctx, b, recipeEntity)
	s.logger.Info("Booking created", zap.String("booking_id", dto.ID.String()))
	return &dto, nil
}

// CancelBooking cancels one of the user's scheduled bookings
func (s *BookingService) CancelBooking(ctx context.Context, userID, bookingID uuid.UUID) (*inbound.BookingDTO, error) {
	return s.changeStatus(ctx, userID, bookingID, booking.StatusCancelled)
}

// CompleteBooking marks one of the user's scheduled bookings as cooked
func (s *BookingService) CompleteBooking(ctx context.Context, userID, bookingID uuid.UUID) (*inbound.BookingDTO, error) {
	return s.changeStatus(ctx, userID, bookingID, booking.StatusCompleted)
}

func (s *BookingService) changeStatus(ctx context.Context, userID, bookingID uuid.UUID, next booking.Status) (*inbound.BookingDTO, error) {
	b, err := s.bookingRepo.FindByID(ctx, bookingID)
	if stderrors.Is(err, outbound.ErrNotFound) {
		return nil, errors.NewBookingNotFoundError(bookingID.String())
	}
	if err != nil {
		return nil, errors.NewDatabaseError("find booking", err)
	}
	// Another user's booking is reported exactly like a missing one
	if !b.IsOwnedBy(userID) {
		return nil, errors.NewBookingNotFoundError(bookingID.String())
	}

	previous := b.Status()
	var changed bool
	switch next {
	case booking.StatusCancelled:
		changed, err = b.Cancel()
	case booking.StatusCompleted:
		changed, err = b.Complete()
	}
	if err != nil {
		var transitionErr *booking.TransitionError
		if stderrors.As(err, &transitionErr) {
			return nil, errors.NewInvalidStatusTransitionError(string(transitionErr.From), string(transitionErr.To))
		}
		return nil, errors.Wrap(err, "failed to change booking status")
	}

	if changed {
		err = s.bookingRepo.Update(ctx, b, previous)
		switch {
		case stderrors.Is(err, outbound.ErrStaleWrite):
			// Another request moved the booking after it was loaded
			if b, err = s.reloadAfterRace(ctx, bookingID, next); err != nil {
				return nil, err
			}
		case err != nil:
			return nil, errors.NewDatabaseError("update booking", err)
		default:
			s.events.Publish(ctx, b.Events()...)
			s.logger.Info("Booking status changed",
				zap.String("booking_id", bookingID.String()),
				zap.String("status", string(next)),
			)
		}
	}

	recipes, err := s.recipesByID(ctx, []uuid.UUID{b.RecipeID()})
	if err != nil {
		return nil, err
	}
	dto := s.toDTO(ctx, b, recipes[b.RecipeID()])
	return &dto, nil
}

// reloadAfterRace reads the stored booking after a lost conditional write.
// A booking that already holds next is returned as is; any other status
// means the requested transition is no longer allowed.
func (s *BookingService) reloadAfterRace(ctx context.Context, bookingID uuid.UUID, next booking.Status) (*booking.Booking, error) {
	current, err := s.bookingRepo.FindByID(ctx, bookingID)
	if stderrors.Is(err, outbound.ErrNotFound) {
		return nil, errors.NewBookingNotFoundError(bookingID.String())
	}
	if err != nil {
		return nil, errors.NewDatabaseError("find booking", err)
	}
	if current.Status() != next {
		return nil, errors.NewInvalidStatusTransitionError(string(current.Status()), string(next))
	}
	return current, nil
}

func (s *BookingService) recipesByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*recipe.Recipe, error) {
	result := make(map[uuid.UUID]*recipe.Recipe, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	recipes, err := s.recipeRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, errors.NewDatabaseError("find booked recipes", err)
	}
	for _, r := range recipes {
		result[r.ID()] = r
	}
	return result, nil
}

func (s *BookingService) toDTO(ctx context.Context, b *booking.Booking, r *recipe.Recipe) inbound.BookingDTO {
	dto := inbound.BookingDTO{
		ID:            b.ID(),
		UserID:        b.UserID(),
		RecipeID:      b.RecipeID(),
		ScheduledDate: b.ScheduledDate().String(),
		MealType:      string(b.MealType()),
		Servings:      b.Servings(),
		Notes:         b.Notes(),
		Status:        string(b.Status()),
		CreatedAt:     b.CreatedAt(),
	}
	if r != nil {
		dto.Recipe = recipeapp.Summary(r, s.images.ResolveImageURL(ctx, r.ImageURL()), false)
	}
	return dto
}

var _ inbound.BookingService = (*BookingService)(nil)
