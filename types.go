package taskforge

import "fmt"

// Logger is the minimal logging surface the package depends on.
// glog.Logger satisfies it; defLogger is the fallback.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// NewDefaultLogger returns the fallback printf logger.
func NewDefaultLogger() Logger {
	return defLogger{}
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] TASKS "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] TASKS "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] TASKS "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] TASKS "+newline(format), args...)
}

func newline(format string) string {
	if len(format) == 0 || format[len(format)-1] != '\n' {
		return format + "\n"
	}
	return format
}
