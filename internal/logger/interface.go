package logger

import "codeberg.org/pmokit/aitrackd/internal/errors"

// Logger defines the interface for logging operations.
type Logger interface {
	Debug() *LogEvent
	Info() *LogEvent
	Warn() *LogEvent
	Error() *LogEvent
	ErrorWithCode(err errors.Error) *LogEvent
	FatalWithCode(err errors.Error) *LogEvent
}

// funcLogger adapts the package-level log functions to the Logger interface
// so collaborators can take an injected logger in tests.
type funcLogger struct{}

func (funcLogger) Debug() *LogEvent { return Debug() }
func (funcLogger) Info() *LogEvent  { return Info() }
func (funcLogger) Warn() *LogEvent  { return Warn() }
func (funcLogger) Error() *LogEvent { return Error() }

func (funcLogger) ErrorWithCode(err errors.Error) *LogEvent { return ErrorWithCode(err) }
func (funcLogger) FatalWithCode(err errors.Error) *LogEvent { return FatalWithCode(err) }

// Default returns the package-level logger as a Logger.
func Default() Logger {
	return funcLogger{}
}
