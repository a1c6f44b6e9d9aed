package form

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"sync"

	"github.com/vango-dev/userform/internal/errors"
)

// Values maps a field name to its current value.
type Values map[string]any

// Clone returns a shallow copy of v. Field values are treated as immutable.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Mode selects when validation runs.
type Mode int

const (
	// OnChange re-runs the schema after every value change.
	OnChange Mode = iota
	// OnSubmit runs the schema only on submit, then on every change after
	// the first submit attempt.
	OnSubmit
)

// Option configures a Controller.
type Option func(*Controller)

// WithSchema sets the validation schema.
func WithSchema(schema Schema) Option {
	return func(c *Controller) { c.schema = schema }
}

// WithMode sets the validation mode.
func WithMode(mode Mode) Option {
	return func(c *Controller) { c.mode = mode }
}

// Setter writes a field by name. Controller implements it; field renderers
// use it for writes that target a field other than their own.
type Setter interface {
	Set(name string, value any)
}

// Controller owns a form's values, validation errors and interaction state.
// It is safe for concurrent use; subscribers are notified outside the lock.
type Controller struct {
	mu sync.RWMutex

	defaults  Values
	values    Values
	failing   Errors // every currently failing field
	touched   map[string]bool
	dirty     map[string]bool
	submitted int

	submitting bool
	schema     Schema
	mode       Mode

	subs   map[int]func(name string, value any)
	nextID int
}

// New creates a Controller initialised with defaults. The default set also
// defines which fields renderers may bind.
func New(defaults Values, opts ...Option) *Controller {
	c := &Controller{
		defaults: defaults.Clone(),
		values:   defaults.Clone(),
		failing:  make(Errors),
		touched:  make(map[string]bool),
		dirty:    make(map[string]bool),
		subs:     make(map[int]func(string, any)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Has reports whether name is part of the form defaults.
func (c *Controller) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.defaults[name]
	return ok
}

// Values returns a snapshot of all current values.
func (c *Controller) Values() Values {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.values.Clone()
}

// Get returns the value of a single field.
func (c *Controller) Get(name string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.values[name]
}

// Watch returns the live value of a field. It is Get under the name the
// page uses for reads that drive rendering decisions.
func (c *Controller) Watch(name string) any {
	return c.Get(name)
}

// GetString returns a field value as a string; nil becomes "".
func (c *Controller) GetString(name string) string {
	return stringValue(c.Get(name))
}

// Set updates a single field. Any name is accepted, including fields that
// no renderer binds. The field becomes touched, dirty when it differs from
// its default, and the schema re-runs according to the mode.
func (c *Controller) Set(name string, value any) {
	c.mu.Lock()
	c.values[name] = value
	c.touched[name] = true
	if reflect.DeepEqual(c.defaults[name], value) {
		delete(c.dirty, name)
	} else {
		c.dirty[name] = true
	}
	if c.mode == OnChange || c.submitted > 0 {
		c.revalidateLocked()
	}
	subs := c.subscribersLocked()
	c.mu.Unlock()

	for _, fn := range subs {
		fn(name, value)
	}
}

// Touch marks a field as interacted with without changing it.
func (c *Controller) Touch(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touched[name] = true
}

// Subscribe registers fn to be called after every Set. The returned
// function removes the subscription.
func (c *Controller) Subscribe(fn func(name string, value any)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Controller) subscribersLocked() []func(string, any) {
	ids := make([]int, 0, len(c.subs))
	for id := range c.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]func(string, any), 0, len(ids))
	for _, id := range ids {
		out = append(out, c.subs[id])
	}
	return out
}

func (c *Controller) revalidateLocked() {
	c.failing = c.schema.Validate(c.values)
}

// errorsLocked returns the visible errors: failing fields the user has
// touched, or every failing field once a submit was attempted.
func (c *Controller) errorsLocked() Errors {
	out := make(Errors, len(c.failing))
	for name, msg := range c.failing {
		if c.submitted > 0 || c.touched[name] {
			out[name] = msg
		}
	}
	return out
}

// Validate runs the schema against the current values, reveals every
// failing field and returns true if the form is valid.
func (c *Controller) Validate() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.revalidateLocked()
	for name := range c.failing {
		c.touched[name] = true
	}
	return len(c.failing) == 0
}

// Errors returns the visible validation errors keyed by field name.
func (c *Controller) Errors() Errors {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.errorsLocked()
}

// FieldError returns the visible error for a field, or "".
func (c *Controller) FieldError(name string) string {
	return c.Errors()[name]
}

// HasError returns true if the field has a visible error.
func (c *Controller) HasError(name string) bool {
	return c.FieldError(name) != ""
}

// IsValid reports whether the current values pass the schema.
func (c *Controller) IsValid() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.schema.Validate(c.values)) == 0
}

// IsDirty returns true if any field differs from its default.
func (c *Controller) IsDirty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.dirty) > 0
}

// FieldDirty returns true if the field differs from its default.
func (c *Controller) FieldDirty(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dirty[name]
}

// IsTouched returns true if the field has been interacted with.
func (c *Controller) IsTouched(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.touched[name]
}

// IsSubmitting returns true while a submit handler is running.
func (c *Controller) IsSubmitting() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.submitting
}

// SubmitCount returns how many submits were attempted.
func (c *Controller) SubmitCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.submitted
}

// HandleSubmit wraps fn in a submit action. The action validates the form;
// when valid it calls fn with a snapshot of all values and returns true.
// When invalid it records the errors, does not call fn and returns false.
func (c *Controller) HandleSubmit(fn func(Values)) func() bool {
	return func() bool {
		c.mu.Lock()
		c.submitted++
		c.revalidateLocked()
		if len(c.failing) > 0 {
			c.mu.Unlock()
			return false
		}
		snapshot := c.values.Clone()
		c.submitting = true
		c.mu.Unlock()

		defer func() {
			c.mu.Lock()
			c.submitting = false
			c.mu.Unlock()
		}()
		fn(snapshot)
		return true
	}
}

// ValidationError returns the current failures as a coded error, or nil.
func (c *Controller) ValidationError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.failing) == 0 {
		return nil
	}
	return errors.New(errors.CodeValidation).WithFields(c.failing.Clone())
}

// Reset restores the defaults and clears errors and interaction state.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = c.defaults.Clone()
	c.failing = make(Errors)
	c.touched = make(map[string]bool)
	c.dirty = make(map[string]bool)
	c.submitted = 0
	c.submitting = false
}

// Field returns the bound accessor for a field declared in the defaults.
// Binding an undeclared field is a programming error and panics.
func (c *Controller) Field(name string) Field {
	return c.View().Field(name)
}

// View returns an immutable snapshot for one render pass.
func (c *Controller) View() View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return View{
		values:   c.values.Clone(),
		errors:   c.errorsLocked(),
		declared: c.defaults,
		setter:   c,
	}
}

// View is a read-only snapshot of a controller taken for one render pass.
// Writes made through its fields go to the controller, not the snapshot.
type View struct {
	values   Values
	errors   Errors
	declared Values
	setter   Setter
}

// Field returns the binding for name. It panics when name is not declared
// in the form defaults.
func (v View) Field(name string) Field {
	if name == "" {
		panic(errors.New(errors.CodeMissingField))
	}
	if _, ok := v.declared[name]; !ok {
		panic(errors.New(errors.CodeUnknownField).WithDetail(fmt.Sprintf("field %q is not declared", name)))
	}
	return Field{
		Name:   name,
		Value:  v.values[name],
		Error:  v.errors[name],
		setter: v.setter,
	}
}

// Watch returns the snapshot value of name.
func (v View) Watch(name string) any { return v.values[name] }

// Values returns the snapshot values.
func (v View) Values() Values { return v.values.Clone() }

// Errors returns the snapshot errors.
func (v View) Errors() Errors { return v.errors.Clone() }

// Setter returns the writer behind the view's fields.
func (v View) Setter() Setter { return v.setter }

// Field binds one named field: its value and error at render time and a
// setter that writes through to the controller.
type Field struct {
	Name  string
	Value any
	Error string

	setter Setter
}

// Set writes value to the bound field.
func (f Field) Set(value any) {
	if f.setter == nil {
		panic(errors.New(errors.CodeMissingField).WithDetail(fmt.Sprintf("field %q has no controller", f.Name)))
	}
	f.setter.Set(f.Name, value)
}

// SetField writes value to another field through the same controller.
func (f Field) SetField(name string, value any) {
	if f.setter == nil {
		panic(errors.New(errors.CodeMissingField).WithDetail(fmt.Sprintf("field %q has no controller", f.Name)))
	}
	f.setter.Set(name, value)
}

// String returns the value formatted for a control's value attribute.
func (f Field) String() string {
	return stringValue(f.Value)
}

// Bool returns the value as a checkbox state; unset is false.
func (f Field) Bool() bool {
	switch v := f.Value.(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		return false
	}
}

func stringValue(v any) string {
	if !isDefined(v) {
		return ""
	}
	return toString(v)
}
