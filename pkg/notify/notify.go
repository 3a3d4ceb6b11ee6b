// Package notify surfaces transient, user-facing notices on the terminal.
//
// Notices are distinct from logs: a failed cart sync is a notice the shopper
// should see once, not an operational log line. All network-originated errors
// end up here instead of propagating as failures that would kill the process.
//
//	notify.Warnf("cart sync failed: %v — your local cart is kept", err)
package notify

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Level classifies a notice.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarn    Level = "warn"
	LevelError   Level = "error"
)

// Notice is a single user-facing message.
type Notice struct {
	Level   Level
	Message string
}

var (
	mu  sync.Mutex
	out io.Writer = os.Stderr

	// hooks receive every notice; the daemon uses this to republish notices
	// it cannot print to an interactive terminal.
	hooks []func(Notice)
)

// SetOutput redirects notices, used by tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// OnNotice registers a hook that observes every notice.
func OnNotice(fn func(Notice)) {
	mu.Lock()
	defer mu.Unlock()
	hooks = append(hooks, fn)
}

func emit(level Level, format string, args ...any) {
	n := Notice{Level: level, Message: fmt.Sprintf(format, args...)}

	mu.Lock()
	w := out
	hs := make([]func(Notice), len(hooks))
	copy(hs, hooks)
	mu.Unlock()

	var prefix string
	switch level {
	case LevelSuccess:
		prefix = "✔ "
	case LevelWarn:
		prefix = "⚠ "
	case LevelError:
		prefix = "✖ "
	}
	fmt.Fprintln(w, prefix+n.Message)

	for _, h := range hs {
		h(n)
	}
}

// Infof prints an informational notice.
func Infof(format string, args ...any) { emit(LevelInfo, format, args...) }

// Successf prints a success notice.
func Successf(format string, args ...any) { emit(LevelSuccess, format, args...) }

// Warnf prints a warning notice.
func Warnf(format string, args ...any) { emit(LevelWarn, format, args...) }

// Errorf prints an error notice.
func Errorf(format string, args ...any) { emit(LevelError, format, args...) }
