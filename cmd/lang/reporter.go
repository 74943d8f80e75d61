package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/lang-programming/lang-interpreter-sub001/pkg/driver"
	"github.com/lang-programming/lang-interpreter-sub001/pkg/interpreter"
)

const (
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiReset  = "\x1b[0m"
)

// useColor reports whether w is a terminal that accepts ANSI colours.
func useColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func newLogger(w io.Writer, warnings bool) *slog.Logger {
	level := slog.LevelWarn
	if !warnings {
		level = slog.LevelError
	}
	color := useColor(w)
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}
			switch a.Key {
			case slog.TimeKey:
				return slog.Attr{}
			case slog.LevelKey:
				if !color {
					return a
				}
				lvl, _ := a.Value.Any().(slog.Level)
				switch {
				case lvl >= slog.LevelError:
					return slog.String(a.Key, ansiRed+lvl.String()+ansiReset)
				case lvl >= slog.LevelWarn:
					return slog.String(a.Key, ansiYellow+lvl.String()+ansiReset)
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// slogReporter forwards interpreter diagnostics to a structured logger.
type slogReporter struct {
	logger  *slog.Logger
	program string
}

func (r slogReporter) Report(d interpreter.Diagnostic) {
	level := slog.LevelError
	if d.Severity == driver.SeverityWarning {
		level = slog.LevelWarn
	}
	attrs := []slog.Attr{
		slog.String("program", r.program),
		slog.String("kind", d.Kind.String()),
	}
	if loc := d.Location.String(); loc != "" {
		attrs = append(attrs, slog.String("location", loc))
	}
	if len(d.Trace) > 0 {
		attrs = append(attrs, slog.String("trace", interpreter.FormatStackTrace(d.Trace)))
	}
	r.logger.LogAttrs(context.Background(), level, d.Message, attrs...)
}
