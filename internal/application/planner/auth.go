package planner

import (
	"context"

	"github.com/savorly/savorly/internal/application/session"
	"go.uber.org/zap"
)

// Auth signs users in and out. Failures are returned to the caller, which
// shows them in the sign-in dialog rather than as notifications.
type Auth struct {
	base
}

// SignIn exchanges credentials for a session
func (a *Auth) SignIn(ctx context.Context, email, password string) (session.Session, error) {
	resp, err := a.data.SignIn(ctx, email, password)
	if err != nil {
		return session.None, err
	}
	sess := session.FromAuth(resp)
	a.logger.Info("Signed in", zap.String("user_id", sess.UserID.String()))
	return sess, nil
}

// SignUp creates an account and signs it in
func (a *Auth) SignUp(ctx context.Context, email, password, fullName string) (session.Session, error) {
	resp, err := a.data.SignUp(ctx, email, password, fullName)
	if err != nil {
		return session.None, err
	}
	sess := session.FromAuth(resp)
	a.logger.Info("Signed up", zap.String("user_id", sess.UserID.String()))
	return sess, nil
}

// SignOut revokes the session's token and forgets the user's queries. The
// returned session is always None.
func (a *Auth) SignOut(ctx context.Context, sess session.Session) (session.Session, error) {
	var err error
	if sess.IsAuthenticated() {
		err = a.data.SignOut(ctx, sess.AccessToken)
		if err != nil {
			a.logger.Warn("Sign-out request failed", zap.Error(err))
		}
	}
	a.cache.Invalidate(OpBookings)
	a.cache.Invalidate(OpFavorites)
	return session.None, err
}

// Message returns the text shown for an auth failure
func Message(err error) string {
	return errorMessage(err)
}
