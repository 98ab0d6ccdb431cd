// Package logger provides verbose logging for the quizdeck CLI.
// When verbose mode is enabled via the --verbose flag, debug messages
// are printed to stderr to trace the load pipeline: cache lookups,
// fetch attempts, backoff, parse degradation and discarded results.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
// A nil writer restores os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	output = w
}

func logf(level, component, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	if component != "" {
		format = component + ": " + format
	}
	fmt.Fprintf(output, "["+level+"] "+format+"\n", args...)
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	logf("DEBUG", "", format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	logf("INFO", "", format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	logf("WARN", "", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Component is a logger whose messages are prefixed with a component name.
type Component struct {
	name string
}

// For returns a logger for the named component.
func For(name string) Component {
	return Component{name: name}
}

// Debug prints a component message if verbose mode is enabled.
func (c Component) Debug(format string, args ...any) {
	logf("DEBUG", c.name, format, args...)
}

// Info prints a component message if verbose mode is enabled.
func (c Component) Info(format string, args ...any) {
	logf("INFO", c.name, format, args...)
}

// Warn prints a component warning if verbose mode is enabled.
func (c Component) Warn(format string, args ...any) {
	logf("WARN", c.name, format, args...)
}
