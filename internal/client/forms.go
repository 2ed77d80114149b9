package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Names of the admin forms.
const (
	FormAddProduct  = "addProduct"
	FormLocation    = "location"
	FormCompanyInfo = "companyInfo"
)

// ErrFormNotBound is returned when submitting a form without a handler.
var ErrFormNotBound = errors.New("form has no submit handler")

// FormValues are the field values of a submitted form.
type FormValues map[string]string

// SubmitFunc handles one form submission.
type SubmitFunc func(ctx context.Context, v FormValues) error

// Forms keeps at most one submit handler per form.
type Forms struct {
	mu       sync.RWMutex
	handlers map[string]SubmitFunc
}

// NewForms returns an empty registry.
func NewForms() *Forms {
	return &Forms{handlers: make(map[string]SubmitFunc)}
}

// Bind attaches fn to the form unless a handler is already attached.
// It reports whether fn was attached.
func (f *Forms) Bind(name string, fn SubmitFunc) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.handlers[name]; ok {
		return false
	}

	f.handlers[name] = fn

	return true
}

// Bound reports whether the form has a handler.
func (f *Forms) Bound(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	_, ok := f.handlers[name]

	return ok
}

// Reset detaches all handlers.
func (f *Forms) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	clear(f.handlers)
}

// Submit runs the handler of the form.
func (f *Forms) Submit(ctx context.Context, name string, v FormValues) error {
	f.mu.RLock()
	fn, ok := f.handlers[name]
	f.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrFormNotBound, name)
	}

	return fn(ctx, v)
}
