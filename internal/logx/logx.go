// Package logx is the compiler's structured logger: a thin wrapper
// around log/slog that writes JSON records to a rotating file while also
// mirroring the same JSON records to stderr. Adapted from
// mmp-vice/pkg/log/log.go; the dual server/client sizing logic is
// collapsed to one profile since the compiler always runs as a batch
// process, and the build-info/system-info banner is kept since it is
// genuinely useful for diagnosing which compiler build produced a given
// database.
package logx

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger struct {
	*slog.Logger
	LogFile string
	Start   time.Time
}

// New creates a Logger that writes JSON-formatted records to dir (default
// "navdbc-logs" if empty) and, unless quiet is set, the same JSON records
// to stderr as well; there is no separate human-readable console format.
func New(level, dir string, quiet bool) *Logger {
	if dir == "" {
		dir = "navdbc-logs"
	}

	w := &lumberjack.Logger{
		Filename: filepath.Join(dir, "compile.log"),
		MaxSize:  64, // MB
		MaxAge:   14,
		Compress: true,
	}

	lvl := slog.LevelInfo
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	case "":
	default:
		fmt.Fprintf(os.Stderr, "%s: invalid log level\n", level)
	}

	var out io.Writer = w
	if !quiet {
		out = io.MultiWriter(w, consoleWriter{})
	}
	h := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: lvl})

	l := &Logger{
		Logger:  slog.New(h),
		LogFile: w.Filename,
		Start:   time.Now(),
	}

	l.Info("compile run starting", slog.Time("start", l.Start))
	if bi, ok := debug.ReadBuildInfo(); ok {
		var deps []any
		for _, dep := range bi.Deps {
			deps = append(deps, slog.String(dep.Path, dep.Version))
		}
		l.Info("build", slog.String("go_version", bi.GoVersion), slog.Group("dependencies", deps...))
	}

	return l
}

// consoleWriter writes to stderr; kept as its own type rather than using
// os.Stderr directly so a future non-TTY mode can swap it out.
type consoleWriter struct{}

func (consoleWriter) Write(p []byte) (int, error) { return os.Stderr.Write(p) }

// Debugf/Infof/Warnf/Errorf mirror slog's level methods but take
// printf-style arguments, matching how the adapters and orchestrator
// log progress and per-record diagnostics throughout this module.

func (l *Logger) Debugf(format string, args ...any) {
	if l != nil {
		l.Logger.Debug(fmt.Sprintf(format, args...))
	}
}

func (l *Logger) Infof(format string, args ...any) {
	if l != nil {
		l.Logger.Info(fmt.Sprintf(format, args...))
	}
}

func (l *Logger) Warnf(format string, args ...any) {
	if l == nil {
		slog.Warn(fmt.Sprintf(format, args...))
		return
	}
	l.Logger.Warn(fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...any) {
	if l == nil {
		slog.Error(fmt.Sprintf(format, args...))
		return
	}
	l.Logger.Error(fmt.Sprintf(format, args...))
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...), LogFile: l.LogFile, Start: l.Start}
}
