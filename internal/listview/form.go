package listview

import "sync"

// Form is the state of a create or edit panel.
type Form[V any] struct {
	mu         sync.Mutex
	open       bool
	target     string
	values     V
	submitting bool
}

func NewForm[V any]() *Form[V] {
	return &Form[V]{}
}

type FormView[V any] struct {
	Open   bool
	Target string // id of the record being edited, empty for create
	Values V
}

func (f *Form[V]) View() FormView[V] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FormView[V]{Open: f.open, Target: f.target, Values: f.values}
}

// Open shows the panel pre-populated with values.
func (f *Form[V]) Open(target string, values V) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = true
	f.target = target
	f.values = values
}

// Keep leaves the panel open with what the operator entered.
func (f *Form[V]) Keep(target string, values V) {
	f.Open(target, values)
}

// Reset clears the fields and closes the panel.
func (f *Form[V]) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	var zero V
	f.open = false
	f.target = ""
	f.values = zero
}

// Dismiss closes the panel without clearing what was typed.
func (f *Form[V]) Dismiss() {
	f.mu.Lock()
	f.open = false
	f.mu.Unlock()
}

// Begin guards against double submission. Every successful Begin must be
// paired with End.
func (f *Form[V]) Begin() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitting {
		return ErrBusy
	}
	f.submitting = true
	return nil
}

func (f *Form[V]) End() {
	f.mu.Lock()
	f.submitting = false
	f.mu.Unlock()
}

func (f *Form[V]) Close() {
	f.Reset()
}
