package sift

import (
	"fmt"
	"regexp"
	"time"

	"github.com/objkit/bucketsift/internal/bucket"
)

// Window is an inclusive last-modified time window. A zero Start means
// unbounded past. A Start after End admits nothing.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window. Both bounds are
// inclusive.
func (w Window) Contains(t time.Time) bool {
	if !w.Start.IsZero() && t.Before(w.Start) {
		return false
	}
	if !w.End.IsZero() && t.After(w.End) {
		return false
	}
	return true
}

// KeyPattern matches a compiled pattern anywhere within an object key.
// The zero value matches every key.
type KeyPattern struct {
	re *regexp.Regexp
}

// CompilePattern compiles expr into a KeyPattern. An empty expr matches
// every key.
func CompilePattern(expr string) (KeyPattern, error) {
	if expr == "" {
		return KeyPattern{}, nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return KeyPattern{}, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	return KeyPattern{re: re}, nil
}

// Match reports whether the pattern is found anywhere in key.
func (p KeyPattern) Match(key string) bool {
	if p.re == nil {
		return true
	}
	return p.re.MatchString(key)
}

// Matches reports whether obj survives both the time window and the key
// pattern. Pure and order-independent; safe to evaluate concurrently.
func Matches(obj bucket.Object, w Window, p KeyPattern) bool {
	return p.Match(obj.Key) && w.Contains(obj.LastModified)
}
