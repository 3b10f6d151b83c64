package testutil

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/trezcool/masomo-landing/core"
)

// Logger is a core.Logger writing to the test log and keeping the messages.
type Logger struct {
	t        *testing.T
	mu       sync.Mutex
	messages []string
}

func NewLogger(t *testing.T) *Logger { return &Logger{t: t} }

// NewMemLogger only keeps the messages. Use it for goroutines that may outlive the test.
func NewMemLogger() *Logger { return &Logger{} }

func (l *Logger) log(level, msg string, args ...interface{}) {
	line := level + " " + msg
	if len(args) > 0 {
		line += " " + strings.TrimSuffix(fmt.Sprintln(args...), "\n")
	}
	l.mu.Lock()
	l.messages = append(l.messages, line)
	l.mu.Unlock()
	if l.t != nil {
		l.t.Log(line)
	}
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.log("DEBUG", msg, args...) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log("INFO", msg, args...) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log("WARN", msg, args...) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log("ERROR", msg, args...) }
func (l *Logger) Fatal(msg string, args ...interface{}) {
	if l.t == nil {
		panic(msg)
	}
	l.t.Fatal(msg, args)
}

// Messages returns what was logged so far, prefixed by level.
func (l *Logger) Messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := make([]string, len(l.messages))
	copy(cp, l.messages)
	return cp
}

var _ core.Logger = (*Logger)(nil)
