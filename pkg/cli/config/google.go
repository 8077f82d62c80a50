package config

import (
	"github.com/m-mizutani/classzip/pkg/infra/google"
	"github.com/urfave/cli/v3"
)

// Google holds the OAuth2 client registration
type Google struct {
	ClientID     string
	ClientSecret string `masq:"secret"`
	RedirectURI  string
}

// Flags returns CLI flags for Google OAuth2 configuration
func (c *Google) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "client-id",
			Usage:       "Google OAuth2 client ID",
			Required:    true,
			Destination: &c.ClientID,
			Sources:     cli.EnvVars("CLASSZIP_CLIENT_ID", "CLIENT_ID"),
		},
		&cli.StringFlag{
			Name:        "client-secret",
			Usage:       "Google OAuth2 client secret",
			Required:    true,
			Destination: &c.ClientSecret,
			Sources:     cli.EnvVars("CLASSZIP_CLIENT_SECRET", "CLIENT_SECRET"),
		},
		&cli.StringFlag{
			Name:        "redirect-uri",
			Usage:       "OAuth2 redirect URI, e.g. http://localhost:5000/auth/google/callback",
			Required:    true,
			Destination: &c.RedirectURI,
			Sources:     cli.EnvVars("CLASSZIP_REDIRECT_URI", "REDIRECT_URI"),
		},
	}
}

// NewAuthenticator builds the OAuth2 authenticator for this registration
func (c *Google) NewAuthenticator() *google.Authenticator {
	return google.NewAuthenticator(c.ClientID, c.ClientSecret, c.RedirectURI)
}
