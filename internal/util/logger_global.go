package util

import "sync"

// The process-wide logger. Components log through the package helpers
// below instead of carrying a logger handle. Before InitLogger runs the
// helpers drop messages silently, which keeps early startup and package
// tests quiet.
var (
	globalLogger LoggerInterface
	loggerOnce   sync.Once
)

// InitLogger configures the shared logger once; later calls are ignored.
// The CLI entry point is the single owner of log settings.
func InitLogger(level, logFile string, debugToConsole bool) {
	loggerOnce.Do(func() {
		globalLogger = NewLogger(level, logFile, debugToConsole)
	})
}

func LogDebugf(format string, args ...interface{}) {
	if l := globalLogger; l != nil {
		l.Debugf(format, args...)
	}
}

func LogInfo(msg string) {
	if l := globalLogger; l != nil {
		l.Info(msg)
	}
}

func LogInfof(format string, args ...interface{}) {
	if l := globalLogger; l != nil {
		l.Infof(format, args...)
	}
}

func LogWarn(msg string) {
	if l := globalLogger; l != nil {
		l.Warn(msg)
	}
}

func LogWarnf(format string, args ...interface{}) {
	if l := globalLogger; l != nil {
		l.Warnf(format, args...)
	}
}

func LogError(msg string) {
	if l := globalLogger; l != nil {
		l.Error(msg)
	}
}

func LogErrorf(format string, args ...interface{}) {
	if l := globalLogger; l != nil {
		l.Errorf(format, args...)
	}
}
