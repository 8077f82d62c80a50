package config

import "github.com/urfave/cli/v3"

// Server holds server configuration
type Server struct {
	Addr         string
	StaticDir    string
	SecureCookie bool
}

// Flags returns CLI flags for server configuration
func (c *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       "localhost:5000",
			Destination: &c.Addr,
			Sources:     cli.EnvVars("CLASSZIP_ADDR"),
		},
		&cli.StringFlag{
			Name:        "static-dir",
			Usage:       "Directory of the frontend files served at /",
			Destination: &c.StaticDir,
			Sources:     cli.EnvVars("CLASSZIP_STATIC_DIR"),
		},
		&cli.BoolFlag{
			Name:        "secure-cookie",
			Usage:       "Set the Secure attribute on session cookies (enable behind HTTPS)",
			Destination: &c.SecureCookie,
			Sources:     cli.EnvVars("CLASSZIP_SECURE_COOKIE"),
		},
	}
}
