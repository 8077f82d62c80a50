package config

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/masq"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"
)

// Logger holds logger configuration
type Logger struct {
	Level string
	JSON  bool

	// Writer is the log destination, os.Stdout when nil
	Writer io.Writer
}

// Flags returns CLI flags for logger configuration
func (c *Logger) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &c.Level,
			Sources:     cli.EnvVars("CLASSZIP_LOG_LEVEL"),
		},
		&cli.BoolFlag{
			Name:        "log-json",
			Usage:       "Output logs in JSON format",
			Value:       false,
			Destination: &c.JSON,
			Sources:     cli.EnvVars("CLASSZIP_LOG_JSON"),
		},
	}
}

// Configure configures and returns a logger. OAuth tokens are redacted
// from every log record.
func (c *Logger) Configure() (*slog.Logger, error) {
	var level slog.Level
	switch strings.ToLower(c.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, goerr.New("invalid log level", goerr.V("level", c.Level))
	}

	w := c.Writer
	if w == nil {
		w = os.Stdout
	}

	filter := masq.New(
		masq.WithTag("secret"),
		masq.WithFieldName("AccessToken"),
		masq.WithFieldName("RefreshToken"),
		masq.WithFieldName("IDToken"),
		masq.WithFieldName("ClientSecret"),
	)

	var handler slog.Handler
	if c.JSON {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: filter,
		})
	} else {
		handler = clog.New(
			clog.WithWriter(w),
			clog.WithLevel(level),
			clog.WithReplaceAttr(filter),
			clog.WithColorMap(newColorMap(!color.NoColor && isTerminal(w))),
		)
	}

	return slog.New(handler), nil
}

func newColorMap(enabled bool) *clog.ColorMap {
	paint := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if !enabled {
			c.DisableColor()
		}
		return c
	}

	return &clog.ColorMap{
		Level: map[slog.Level]*color.Color{
			slog.LevelDebug: paint(color.FgGreen, color.Bold),
			slog.LevelInfo:  paint(color.FgCyan, color.Bold),
			slog.LevelWarn:  paint(color.FgYellow, color.Bold),
			slog.LevelError: paint(color.FgRed, color.Bold),
		},
		LevelDefault: paint(color.FgBlue, color.Bold),
		Time:         paint(color.FgWhite),
		Message:      paint(color.FgHiWhite),
		AttrKey:      paint(color.FgHiCyan),
		AttrValue:    paint(color.FgHiWhite),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
