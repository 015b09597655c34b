package utils

import (
	"io"
	"log/slog"
)

// CloseWithLog closes c and logs a failure at warn level. It is meant for
// deferred closes of response bodies, where the close error must not
// replace the primary error of the caller.
func CloseWithLog(c io.Closer) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		slog.Warn("failed to close resource", "error", err.Error())
	}
}
