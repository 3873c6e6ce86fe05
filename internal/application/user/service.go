// Package user provides the application layer for user management
package user

import (
	"context"
	stderrors "errors"

	"github.com/google/uuid"
	"github.com/savorly/savorly/internal/domain/user"
	"github.com/savorly/savorly/internal/ports/inbound"
	"github.com/savorly/savorly/internal/ports/outbound"
	"github.com/savorly/savorly/pkg/errors"
	"go.uber.org/zap"
)

// UserService implements user management use cases
type UserService struct {
	userRepo outbound.UserRepository
	tokens   outbound.TokenService
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo outbound.UserRepository,
	tokens outbound.TokenService,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger.Named("user-service"),
	}
}

// SignUp creates a new user account and signs it in
func (s *UserService) SignUp(ctx context.Context, cmd inbound.SignUpCommand) (*inbound.AuthResponse, error) {
	s.logger.Info("Registering new user", zap.String("email", cmd.Email))

	newUser, err := user.NewUser(cmd.Email, cmd.FullName, cmd.Password)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if existing, err := s.userRepo.FindByEmail(ctx, newUser.Email()); err == nil && existing != nil {
		return nil, errors.NewEmailAlreadyExistsError(newUser.Email())
	} else if err != nil && !stderrors.Is(err, outbound.ErrNotFound) {
		return nil, errors.NewDatabaseError("find user", err)
	}

	if err := s.userRepo.Create(ctx, newUser); err != nil {
		// Lost a race with a concurrent sign-up for the same address
		if errors.Is(err, errors.CodeUniqueViolation) {
			return nil, errors.NewEmailAlreadyExistsError(newUser.Email())
		}
		return nil, errors.NewDatabaseError("create user", err)
	}

	resp, err := s.issue(ctx, newUser)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered successfully",
		zap.String("user_id", newUser.ID().String()),
		zap.String("email", newUser.Email()),
	)
	return resp, nil
}

// SignIn authenticates a user by email and password
func (s *UserService) SignIn(ctx context.Context, cmd inbound.SignInCommand) (*inbound.AuthResponse, error) {
	u, err := s.userRepo.FindByEmail(ctx, user.NormalizeEmail(cmd.Email))
	if stderrors.Is(err, outbound.ErrNotFound) {
		return nil, errors.NewInvalidCredentialsError()
	}
	if err != nil {
		return nil, errors.NewDatabaseError("find user", err)
	}

	if err := u.CheckPassword(cmd.Password); err != nil {
		s.logger.Info("Sign-in rejected", zap.String("user_id", u.ID().String()))
		return nil, errors.NewInvalidCredentialsError()
	}

	u.RecordLogin()
	if err := s.userRepo.UpdateLastLogin(ctx, u.ID(), *u.LastLoginAt()); err != nil {
		s.logger.Warn("Failed to record login", zap.String("user_id", u.ID().String()), zap.Error(err))
	}

	return s.issue(ctx, u)
}

// SignOut revokes the access token
func (s *UserService) SignOut(ctx context.Context, accessToken string) error {
	if err := s.tokens.RevokeToken(ctx, accessToken); err != nil {
		return errors.Wrap(err, "failed to revoke token")
	}
	return nil
}

// GetUser returns the profile of a user
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*inbound.UserDTO, error) {
	u, err := s.userRepo.FindByID(ctx, userID)
	if stderrors.Is(err, outbound.ErrNotFound) {
		return nil, errors.NewUserNotFoundError(userID.String())
	}
	if err != nil {
		return nil, errors.NewDatabaseError("find user", err)
	}
	dto := toDTO(u)
	return &dto, nil
}

func (s *UserService) issue(ctx context.Context, u *user.User) (*inbound.AuthResponse, error) {
	pair, err := s.tokens.IssueTokens(ctx, u.ID(), u.Email())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens")
	}
	return &inbound.AuthResponse{
		User:         toDTO(u),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt,
	}, nil
}

func toDTO(u *user.User) inbound.UserDTO {
	return inbound.UserDTO{
		ID:        u.ID(),
		Email:     u.Email(),
		FullName:  u.FullName(),
		CreatedAt: u.CreatedAt(),
	}
}

var _ inbound.UserService = (*UserService)(nil)
