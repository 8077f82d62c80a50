package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/classzip/pkg/domain/interfaces"
	"github.com/m-mizutani/classzip/pkg/domain/model"
	"github.com/m-mizutani/classzip/pkg/utils/async"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// ErrTokenExpired is returned when the session token has expired and
// there is no refresh token to renew it.
var ErrTokenExpired = goerr.New("token expired and cannot be refreshed")

const defaultRevokeTimeout = 10 * time.Second

// AuthOption is a functional option for the auth use case
type AuthOption func(*authUseCase)

// WithAuthClock overrides the clock used for expiry checks
func WithAuthClock(now func() time.Time) AuthOption {
	return func(uc *authUseCase) {
		uc.now = now
	}
}

// WithRevokeTimeout bounds the background token revocation on logout
func WithRevokeTimeout(timeout time.Duration) AuthOption {
	return func(uc *authUseCase) {
		uc.revokeTimeout = timeout
	}
}

type authUseCase struct {
	auth          interfaces.Authenticator
	now           func() time.Time
	revokeTimeout time.Duration
}

// NewAuth creates a new instance of AuthUseCase
func NewAuth(auth interfaces.Authenticator, opts ...AuthOption) interfaces.AuthUseCase {
	uc := &authUseCase{
		auth:          auth,
		now:           time.Now,
		revokeTimeout: defaultRevokeTimeout,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *authUseCase) LoginURL(state string) string {
	return uc.auth.AuthCodeURL(state)
}

func (uc *authUseCase) Login(ctx context.Context, code string) (*model.Token, error) {
	if code == "" {
		return nil, goerr.New("authorization code is empty")
	}

	token, err := uc.auth.Exchange(ctx, code)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to exchange authorization code")
	}

	ctxlog.From(ctx).Info("User signed in", "has_refresh_token", token.RefreshToken != "")
	return token, nil
}

// Refresh returns token as is while it is valid. An expired token is
// renewed with its refresh token; the old refresh token is kept when the
// provider does not issue a new one.
func (uc *authUseCase) Refresh(ctx context.Context, token *model.Token) (*model.Token, bool, error) {
	if !token.Expired(uc.now()) {
		return token, false, nil
	}

	if token.RefreshToken == "" {
		return nil, false, goerr.Wrap(ErrTokenExpired, "no refresh token",
			goerr.V("expiry_date", token.ExpiryDate))
	}

	fresh, err := uc.auth.Refresh(ctx, token.RefreshToken)
	if err != nil {
		return nil, false, goerr.Wrap(err, "failed to refresh token")
	}
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = token.RefreshToken
	}

	ctxlog.From(ctx).Debug("Token refreshed", "expiry_date", fresh.ExpiryDate)
	return fresh, true, nil
}

func (uc *authUseCase) Logout(ctx context.Context, token *model.Token) {
	if token == nil || token.AccessToken == "" {
		return
	}

	accessToken := token.AccessToken
	async.Dispatch(ctx, uc.revokeTimeout, func(ctx context.Context) error {
		if err := uc.auth.Revoke(ctx, accessToken); err != nil {
			return goerr.Wrap(err, "failed to revoke token")
		}
		ctxlog.From(ctx).Info("Token revoked")
		return nil
	})
}
