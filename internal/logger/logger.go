// Package logger prints levelled, coloured log lines to stdout/stderr.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

var (
	mu     sync.Mutex
	out    io.Writer = os.Stdout
	errOut io.Writer = os.Stderr

	timeColor    = color.New(color.FgHiBlack)
	infoColor    = color.New(color.FgBlue)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	methodColor  = color.New(color.FgMagenta)
)

// SetOutput redirects all log lines, mostly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	errOut = w
}

func write(w io.Writer, c *color.Color, level, message string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	ts := timeColor.Sprintf("[%s]", time.Now().Format("15:04:05"))
	fmt.Fprintf(w, "%s %s\n", ts, c.Sprintf("%s: %s", level, fmt.Sprintf(message, args...)))
}

func Info(message string, args ...interface{}) {
	write(out, infoColor, "INFO", message, args...)
}

func Success(message string, args ...interface{}) {
	write(out, successColor, "INFO", message, args...)
}

func Warning(message string, args ...interface{}) {
	write(out, warnColor, "WARNING", message, args...)
}

func Error(message string, args ...interface{}) {
	write(errOut, errorColor, "ERROR", message, args...)
}

// Request logs one served HTTP request, coloured by status class.
func Request(method, path string, statusCode int, duration time.Duration) {
	var c *color.Color
	switch {
	case statusCode >= 500:
		c = errorColor
	case statusCode >= 400:
		c = warnColor
	case statusCode >= 300:
		c = infoColor
	default:
		c = successColor
	}

	var durationStr string
	switch {
	case duration < time.Millisecond:
		durationStr = fmt.Sprintf("%dµs", duration.Microseconds())
	case duration < time.Second:
		durationStr = fmt.Sprintf("%dms", duration.Milliseconds())
	default:
		durationStr = fmt.Sprintf("%.2fs", duration.Seconds())
	}

	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(out, "%s %s %-40s %s %s\n",
		timeColor.Sprintf("[%s]", time.Now().Format("15:04:05")),
		methodColor.Sprintf("%-6s", method),
		path,
		c.Sprintf("[%d]", statusCode),
		timeColor.Sprintf("(%s)", durationStr))
}
