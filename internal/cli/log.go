package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dhebbeker/doxygen/pkg/dirtree"
)

// logTimeFormat prints wall-clock time with centiseconds, e.g. "14:32:01.45".
const logTimeFormat = "15:04:05.00"

// newLogger creates the command logger writing to w at level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      logTimeFormat,
		Level:           level,
	})
}

// withLogger attaches l to ctx. The server and pipeline read it back with
// log.FromContext, so commands and libraries share one logger.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return log.WithContext(ctx, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default.
func loggerFromContext(ctx context.Context) *log.Logger {
	return log.FromContext(ctx)
}

// logProjectLoaded reports a freshly built directory tree and how long
// loading took since start.
func logProjectLoaded(l *log.Logger, manifest string, st dirtree.Stats, start time.Time) {
	l.Info("loaded project", "manifest", manifest, "dirs", st.Dirs, "files", st.Files,
		"took", time.Since(start).Round(time.Millisecond))
	l.Debug("includes", "resolved", st.Includes, "external", st.ExternalIncludes, "used_dirs", st.UsedDirs)
}
