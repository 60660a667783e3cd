package gmlfront

import (
	"errors"
	"sync"
)

// ErrMacroExpansionLimit is returned when macro expansion nests deeper than
// Config.MaxMacroExpansions, which is what a circular macro definition does.
var ErrMacroExpansionLimit = errors.New("macro expansion limit exceeded")

// ErrorSink accumulates diagnostics for a whole compile context.
// It is safe for concurrent use by code entries compiled in parallel.
type ErrorSink struct {
	mu          sync.Mutex
	diagnostics []*CompileError
}

// Push appends a diagnostic
func (s *ErrorSink) Push(err *CompileError) {
	s.mu.Lock()
	s.diagnostics = append(s.diagnostics, err)
	s.mu.Unlock()
}

// Errors returns a snapshot of all error diagnostics, in push order
func (s *ErrorSink) Errors() []*CompileError {
	return s.filter(false)
}

// Warnings returns a snapshot of all warning diagnostics, in push order
func (s *ErrorSink) Warnings() []*CompileError {
	return s.filter(true)
}

func (s *ErrorSink) filter(warning bool) []*CompileError {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*CompileError
	for _, d := range s.diagnostics {
		if d.Warning == warning {
			out = append(out, d)
		}
	}
	return out
}

// All returns every diagnostic, errors and warnings interleaved in push order
func (s *ErrorSink) All() []*CompileError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*CompileError(nil), s.diagnostics...)
}

// Len returns the number of error diagnostics
func (s *ErrorSink) Len() int {
	return len(s.Errors())
}

// Err joins all error diagnostics into one error, or returns nil
func (s *ErrorSink) Err() error {
	errs := s.Errors()
	if len(errs) == 0 {
		return nil
	}
	joined := make([]error, len(errs))
	for i, e := range errs {
		joined[i] = e
	}
	return errors.Join(joined...)
}

// MacroExpansionError reports the macro reference at which expansion gave up
type MacroExpansionError struct {
	Token *TokenIdentifier
}

func (e *MacroExpansionError) Error() string {
	return ErrMacroExpansionLimit.Error() + " while expanding \"" + e.Token.Text + "\""
}

func (e *MacroExpansionError) Unwrap() error {
	return ErrMacroExpansionLimit
}
