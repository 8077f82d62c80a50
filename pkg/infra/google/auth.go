package google

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/m-mizutani/classzip/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/classroom/v1"
	"google.golang.org/api/drive/v3"
	oauth2api "google.golang.org/api/oauth2/v2"
)

// DefaultRevokeURL is Google's token revocation endpoint
const DefaultRevokeURL = "https://oauth2.googleapis.com/revoke"

// Scopes requested at login
var Scopes = []string{
	classroom.ClassroomCoursesReadonlyScope,
	classroom.ClassroomCourseworkmaterialsReadonlyScope,
	drive.DriveReadonlyScope,
	oauth2api.UserinfoProfileScope,
	oauth2api.UserinfoEmailScope,
}

// AuthOption is a functional option for Authenticator
type AuthOption func(*Authenticator)

// WithEndpoint replaces the OAuth2 endpoint (tests)
func WithEndpoint(endpoint oauth2.Endpoint) AuthOption {
	return func(a *Authenticator) {
		a.config.Endpoint = endpoint
	}
}

// WithRevokeURL replaces the revocation endpoint (tests)
func WithRevokeURL(revokeURL string) AuthOption {
	return func(a *Authenticator) {
		a.revokeURL = revokeURL
	}
}

// WithHTTPClient sets the client used for token and revocation requests
func WithHTTPClient(client *http.Client) AuthOption {
	return func(a *Authenticator) {
		a.httpClient = client
	}
}

// Authenticator implements interfaces.Authenticator on golang.org/x/oauth2
type Authenticator struct {
	config     *oauth2.Config
	revokeURL  string
	httpClient *http.Client
}

// NewAuthenticator creates an Authenticator for a registered OAuth client
func NewAuthenticator(clientID, clientSecret, redirectURI string, opts ...AuthOption) *Authenticator {
	a := &Authenticator{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Endpoint:     googleoauth.Endpoint,
			Scopes:       Scopes,
		},
		revokeURL:  DefaultRevokeURL,
		httpClient: http.DefaultClient,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Config returns the underlying OAuth2 configuration
func (a *Authenticator) Config() *oauth2.Config {
	return a.config
}

func (a *Authenticator) withClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
}

// AuthCodeURL returns the consent page URL with offline access and forced consent
func (a *Authenticator) AuthCodeURL(state string) string {
	return a.config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// Exchange converts an authorization code into a token
func (a *Authenticator) Exchange(ctx context.Context, code string) (*model.Token, error) {
	token, err := a.config.Exchange(a.withClient(ctx), code)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to exchange authorization code")
	}
	return model.NewToken(token), nil
}

// Refresh obtains a new access token from a refresh token
func (a *Authenticator) Refresh(ctx context.Context, refreshToken string) (*model.Token, error) {
	src := a.config.TokenSource(a.withClient(ctx), &oauth2.Token{RefreshToken: refreshToken})
	token, err := src.Token()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to refresh token")
	}
	return model.NewToken(token), nil
}

// Revoke invalidates an access token
func (a *Authenticator) Revoke(ctx context.Context, accessToken string) error {
	form := url.Values{"token": {accessToken}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.revokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return goerr.Wrap(err, "failed to create revoke request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to revoke token")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return goerr.New("unexpected status code on revoke", goerr.V("status", resp.StatusCode))
	}

	return nil
}
