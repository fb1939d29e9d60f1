package headlessterm

import (
	"io"
	"log/slog"
)

// defaultLogger discards everything, matching the teacher's other
// no-op-by-default providers until a caller opts in.
var defaultLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// WithLogger sets the logger a Terminal uses for parse-warning and
// IO-transient diagnostics. Malformed sequences log at Debug; PTY-fatal
// errors log at Warn/Error.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Terminal) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// Logger returns the terminal's current logger.
func (t *Terminal) Logger() *slog.Logger {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.logger
}
