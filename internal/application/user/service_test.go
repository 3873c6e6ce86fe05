package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	userapp "github.com/savorly/savorly/internal/application/user"
	"github.com/savorly/savorly/internal/ports/inbound"
	"github.com/savorly/savorly/internal/ports/outbound"
	"github.com/savorly/savorly/pkg/errors"
	"github.com/savorly/savorly/test/testutils"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
)

type UserServiceTestSuite struct {
	suite.Suite
	users   *testutils.MockUserRepository
	tokens  *testutils.MockTokenService
	service *userapp.UserService
	ctx     context.Context
}

func (s *UserServiceTestSuite) SetupTest() {
	s.users = new(testutils.MockUserRepository)
	s.tokens = new(testutils.MockTokenService)
	s.ctx = context.Background()
	s.service = userapp.NewUserService(s.users, s.tokens, zaptest.NewLogger(s.T()))
}

func (s *UserServiceTestSuite) TearDownTest() {
	s.users.AssertExpectations(s.T())
	s.tokens.AssertExpectations(s.T())
}

func pair() *outbound.TokenPair {
	return &outbound.TokenPair{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
}

func (s *UserServiceTestSuite) TestSignUp() {
	s.users.On("FindByEmail", mock.Anything, "cook@example.com").Return(nil, outbound.ErrNotFound)
	s.users.On("Create", mock.Anything, mock.AnythingOfType("*user.User")).Return(nil)
	s.tokens.On("IssueTokens", mock.Anything, mock.AnythingOfType("uuid.UUID"), "cook@example.com").Return(pair(), nil)

	resp, err := s.service.SignUp(s.ctx, inbound.SignUpCommand{
		Email:    " Cook@Example.com ",
		Password: "secret-pass",
		FullName: "Home Cook",
	})
	s.Require().NoError(err)
	s.Equal("cook@example.com", resp.User.Email)
	s.Equal("Home Cook", resp.User.FullName)
	s.Equal("access", resp.AccessToken)
}

func (s *UserServiceTestSuite) TestSignUpDuplicateEmail() {
	existing := testutils.NewTestUser()
	s.users.On("FindByEmail", mock.Anything, existing.Email()).Return(existing, nil)

	_, err := s.service.SignUp(s.ctx, inbound.SignUpCommand{Email: existing.Email(), Password: "secret-pass"})
	s.True(errors.Is(err, errors.CodeEmailAlreadyExists))
}

func (s *UserServiceTestSuite) TestSignUpLosesRace() {
	s.users.On("FindByEmail", mock.Anything, "cook@example.com").Return(nil, outbound.ErrNotFound)
	s.users.On("Create", mock.Anything, mock.Anything).Return(errors.NewUniqueViolationError("email", nil))

	_, err := s.service.SignUp(s.ctx, inbound.SignUpCommand{Email: "cook@example.com", Password: "secret-pass"})
	s.True(errors.Is(err, errors.CodeEmailAlreadyExists))
}

func (s *UserServiceTestSuite) TestSignUpWeakPassword() {
	_, err := s.service.SignUp(s.ctx, inbound.SignUpCommand{Email: "cook@example.com", Password: "123"})
	s.True(errors.Is(err, errors.CodeValidationFailed))
}

func (s *UserServiceTestSuite) TestSignIn() {
	u := testutils.NewTestUser()
	s.users.On("FindByEmail", mock.Anything, u.Email()).Return(u, nil)
	s.users.On("UpdateLastLogin", mock.Anything, u.ID(), mock.AnythingOfType("time.Time")).Return(nil)
	s.tokens.On("IssueTokens", mock.Anything, u.ID(), u.Email()).Return(pair(), nil)

	resp, err := s.service.SignIn(s.ctx, inbound.SignInCommand{Email: u.Email(), Password: testutils.TestPassword})
	s.Require().NoError(err)
	s.Equal(u.ID(), resp.User.ID)
}

func (s *UserServiceTestSuite) TestSignInRejectsBadCredentials() {
	u := testutils.NewTestUser()
	s.users.On("FindByEmail", mock.Anything, u.Email()).Return(u, nil)
	s.users.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, outbound.ErrNotFound)

	_, err := s.service.SignIn(s.ctx, inbound.SignInCommand{Email: u.Email(), Password: "wrong-password"})
	s.True(errors.Is(err, errors.CodeInvalidCredentials))

	// Unknown addresses are indistinguishable from wrong passwords
	_, err = s.service.SignIn(s.ctx, inbound.SignInCommand{Email: "nobody@example.com", Password: "x"})
	s.True(errors.Is(err, errors.CodeInvalidCredentials))
}

func (s *UserServiceTestSuite) TestSignOutRevokes() {
	s.tokens.On("RevokeToken", mock.Anything, "access").Return(nil)
	s.NoError(s.service.SignOut(s.ctx, "access"))
}

func (s *UserServiceTestSuite) TestGetMissingUser() {
	id := uuid.New()
	s.users.On("FindByID", mock.Anything, id).Return(nil, outbound.ErrNotFound)

	_, err := s.service.GetUser(s.ctx, id)
	s.True(errors.Is(err, errors.CodeUserNotFound))
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
