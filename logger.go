package dynser

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// Logger returns the package's logger instance. It uses a no-op
// logger by default.
//
// Serialization itself never logs. The logger only reports one-time
// setup work, such as building the type table.
func Logger() *zap.Logger {
	return logger.Load()
}

// SetLogger configures the package's logger. It must be called before
// the first serialization to observe setup logging. A nil l restores
// the no-op logger. SetLogger is safe to call concurrently with
// serialization.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}
