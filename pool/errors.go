package pool

import (
	"errors"
	"strconv"
	"strings"
	"sync"
)

// ErrInvalidArgument is returned by constructors when given an invalid
// parameter, e.g. a non-positive thread count.
var ErrInvalidArgument = errors.New("pool: invalid argument")

// ErrorList accumulates free-form diagnostic strings produced by worker
// tasks. The zero value is ready to use.
type ErrorList struct {
	mu       sync.Mutex
	messages []string
}

// Add appends err's message to the list. Safe for concurrent use.
func (l *ErrorList) Add(err error) {
	if err == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, err.Error())
}

// Empty reports whether no errors have been added.
func (l *ErrorList) Empty() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.messages) == 0
}

// Message renders the accumulated errors as a single string, prefixed with
// a count header.
func (l *ErrorList) Message() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.messages) == 0 {
		return ""
	}
	var b strings.Builder
	if len(l.messages) == 1 {
		b.WriteString("1 task failed:\n")
	} else {
		b.WriteString(strconv.Itoa(len(l.messages)))
		b.WriteString(" tasks failed:\n")
	}
	for i, m := range l.messages {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(m)
	}
	return b.String()
}

// AsyncError is the distinguished error kind surfaced when ForEach
// collects one or more worker-task failures.
type AsyncError struct {
	message string
}

func (e *AsyncError) Error() string { return e.message }

// newAsyncError builds an AsyncError from a non-empty ErrorList. Returns
// nil if the list is empty.
func newAsyncError(l *ErrorList) error {
	if l.Empty() {
		return nil
	}
	return &AsyncError{message: l.Message()}
}
