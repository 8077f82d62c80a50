package http

import (
	"crypto/subtle"
	"net/http"

	"github.com/google/uuid"
	"github.com/m-mizutani/classzip/pkg/domain/interfaces"
	"github.com/m-mizutani/classzip/pkg/domain/model"
	"github.com/m-mizutani/classzip/pkg/utils/errs"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

const (
	tokenCookieName = "token"
	stateCookieName = "oauth_state"
	stateCookiePath = "/auth/"
	stateMaxAge     = 10 * 60
)

var (
	errAuthRequired = goerr.New("Authentication required")
	errInvalidState = goerr.New("Invalid OAuth state")
	errLoginFailed  = goerr.New("Failed to sign in")
)

// cookieJar issues and clears the session cookies
type cookieJar struct {
	secure bool
}

func (c *cookieJar) set(w http.ResponseWriter, name, value, path string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c *cookieJar) setToken(w http.ResponseWriter, token *model.Token) error {
	value, err := token.Encode()
	if err != nil {
		return err
	}
	c.set(w, tokenCookieName, value, "/", 0)
	return nil
}

func (c *cookieJar) clearToken(w http.ResponseWriter) {
	c.set(w, tokenCookieName, "", "/", -1)
}

type authHandler struct {
	auth    interfaces.AuthUseCase
	cookies *cookieJar
}

// Middleware resolves the session token from the cookie, refreshes it when
// expired and puts it on the request context. Protected paths without a
// cookie get 401; an unusable session is cleared and sent back to "/".
func (h *authHandler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		public := isPublicPath(r.URL.Path)

		cookie, err := r.Cookie(tokenCookieName)
		if err != nil || cookie.Value == "" {
			if !public {
				writeError(w, errAuthRequired, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		token, err := model.DecodeToken(cookie.Value)
		refreshed := false
		if err == nil {
			token, refreshed, err = h.auth.Refresh(ctx, token)
		}
		if err != nil {
			ctxlog.From(ctx).Warn("Discarding session", "path", r.URL.Path, "error", err)
			h.cookies.clearToken(w)
			if !public {
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		if refreshed {
			if err := h.cookies.setToken(w, token); err != nil {
				errs.Handle(ctx, "failed to reissue token cookie", err)
			}
		}

		next.ServeHTTP(w, r.WithContext(withToken(ctx, token)))
	})
}

// Login redirects to the Google consent screen
func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	h.cookies.set(w, stateCookieName, state, stateCookiePath, stateMaxAge)
	http.Redirect(w, r, h.auth.LoginURL(state), http.StatusFound)
}

// Callback completes the OAuth2 flow and stores the token cookie
func (h *authHandler) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" ||
		subtle.ConstantTimeCompare([]byte(stateCookie.Value), []byte(query.Get("state"))) != 1 {
		ctxlog.From(ctx).Warn("OAuth state mismatch")
		writeError(w, errInvalidState, http.StatusBadRequest)
		return
	}
	h.cookies.set(w, stateCookieName, "", stateCookiePath, -1)

	if reason := query.Get("error"); reason != "" {
		ctxlog.From(ctx).Info("Consent was not granted", "reason", reason)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	token, err := h.auth.Login(ctx, query.Get("code"))
	if err != nil {
		errs.Handle(ctx, "failed to complete sign in", err)
		writeError(w, errLoginFailed, http.StatusInternalServerError)
		return
	}

	if err := h.cookies.setToken(w, token); err != nil {
		errs.Handle(ctx, "failed to set token cookie", err)
		writeError(w, errLoginFailed, http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout revokes the token in the background and clears the session
func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := tokenFromContext(r.Context()); token != nil {
		h.auth.Logout(r.Context(), token)
	}

	h.cookies.clearToken(w)
	http.Redirect(w, r, "/", http.StatusFound)
}
