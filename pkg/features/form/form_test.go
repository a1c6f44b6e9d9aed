package form

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/userform/internal/errors"
)

func testSchema() Schema {
	return Schema{
		FieldRule("address", Required("Address is required")),
		FieldRule("description", Required("Description is required")),
		FieldRule("pick", Defined("Please select an option.")),
	}
}

func testDefaults() Values {
	return Values{
		"fan":         "true",
		"address":     "asd",
		"description": "adsf",
		"pick":        nil,
		"dependent":   nil,
	}
}

func TestNewCopiesDefaults(t *testing.T) {
	defaults := testDefaults()
	c := New(defaults)

	defaults["address"] = "mutated"
	if got := c.Get("address"); got != "asd" {
		t.Errorf("controller must not alias defaults, got %v", got)
	}

	values := c.Values()
	values["address"] = "mutated"
	if got := c.Get("address"); got != "asd" {
		t.Errorf("Values must return a copy, got %v", got)
	}

	if len(c.Errors()) != 0 {
		t.Errorf("no errors before interaction, got %v", c.Errors())
	}
	if c.IsDirty() {
		t.Error("fresh controller should not be dirty")
	}
}

func TestSetRevalidatesOnChange(t *testing.T) {
	c := New(testDefaults(), WithSchema(testSchema()))

	c.Set("address", "   ")
	if diff := cmp.Diff(Errors{"address": "Address is required"}, c.Errors()); diff != "" {
		t.Errorf("errors after blank address (-want +got):\n%s", diff)
	}

	c.Set("address", "Main St")
	if len(c.Errors()) != 0 {
		t.Errorf("error should clear once fixed, got %v", c.Errors())
	}

	// pick fails the schema but is untouched, so it stays hidden
	if c.IsValid() {
		t.Error("IsValid should see the untouched failing field")
	}
}

func TestOnSubmitModeDefersValidation(t *testing.T) {
	c := New(testDefaults(), WithSchema(testSchema()), WithMode(OnSubmit))

	c.Set("address", "")
	if len(c.Errors()) != 0 {
		t.Errorf("OnSubmit mode should not validate on change, got %v", c.Errors())
	}

	c.HandleSubmit(func(Values) {})()
	if c.FieldError("address") != "Address is required" {
		t.Errorf("submit should reveal address error, got %v", c.Errors())
	}

	c.Set("address", "x")
	if c.HasError("address") {
		t.Error("after first submit, changes re-validate")
	}
}

func TestHandleSubmitInvalid(t *testing.T) {
	c := New(testDefaults(), WithSchema(testSchema()))
	c.Set("description", "")

	called := false
	ok := c.HandleSubmit(func(Values) { called = true })()

	if ok || called {
		t.Fatal("invalid submit must not call the handler")
	}
	want := Errors{
		"description": "Description is required",
		"pick":        "Please select an option.",
	}
	if diff := cmp.Diff(want, c.Errors()); diff != "" {
		t.Errorf("errors (-want +got):\n%s", diff)
	}
	if c.SubmitCount() != 1 {
		t.Errorf("SubmitCount = %d", c.SubmitCount())
	}

	err := c.ValidationError()
	if errors.CodeOf(err) != errors.CodeValidation {
		t.Fatalf("ValidationError = %v", err)
	}
	var e *errors.Error
	errors.As(err, &e)
	if diff := cmp.Diff(map[string]string(want), e.Fields); diff != "" {
		t.Errorf("coded error fields (-want +got):\n%s", diff)
	}
}

func TestHandleSubmitValidSnapshot(t *testing.T) {
	c := New(testDefaults(), WithSchema(testSchema()))
	c.Set("pick", 3)

	var got Values
	ok := c.HandleSubmit(func(v Values) {
		if !c.IsSubmitting() {
			t.Error("IsSubmitting should be true inside the handler")
		}
		got = v
	})()

	if !ok {
		t.Fatalf("valid submit returned false: %v", c.Errors())
	}
	want := Values{"fan": "true", "address": "asd", "description": "adsf", "pick": 3, "dependent": nil}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("snapshot (-want +got):\n%s", diff)
	}
	if c.IsSubmitting() {
		t.Error("IsSubmitting should reset after the handler")
	}
	if c.ValidationError() != nil {
		t.Error("no validation error on a valid form")
	}
}

func TestDirtyTracksDifferenceFromDefault(t *testing.T) {
	c := New(testDefaults())

	c.Set("address", "elsewhere")
	if !c.FieldDirty("address") || !c.IsDirty() {
		t.Error("changed field should be dirty")
	}
	if !c.IsTouched("address") {
		t.Error("changed field should be touched")
	}

	c.Set("address", "asd")
	if c.FieldDirty("address") {
		t.Error("restoring the default clears dirty")
	}
	if !c.IsTouched("address") {
		t.Error("touched is sticky")
	}
}

func TestSetUndeclaredField(t *testing.T) {
	c := New(testDefaults())
	c.Set("extra", 1)
	if c.Get("extra") != 1 {
		t.Error("Set accepts any field name")
	}
	if c.Has("extra") {
		t.Error("Set does not declare fields")
	}
}

func TestFieldPanicsOnUndeclared(t *testing.T) {
	c := New(testDefaults())

	for _, name := range []string{"", "nope"} {
		t.Run(fmt.Sprintf("name=%q", name), func(t *testing.T) {
			defer func() {
				r := recover()
				if r == nil {
					t.Fatal("expected panic")
				}
				if _, ok := r.(*errors.Error); !ok {
					t.Errorf("panic value = %T, want *errors.Error", r)
				}
			}()
			c.Field(name)
		})
	}
}

func TestViewIsSnapshot(t *testing.T) {
	c := New(testDefaults(), WithSchema(testSchema()))
	view := c.View()

	f := view.Field("address")
	f.Set("")

	if view.Watch("address") != "asd" {
		t.Error("view must not observe later writes")
	}
	if c.Get("address") != "" {
		t.Error("field setter must write to the controller")
	}
	if c.View().Field("address").Error != "Address is required" {
		t.Error("new view should carry the new error")
	}

	f.SetField("dependent", "x")
	if c.Get("dependent") != "x" {
		t.Error("SetField writes another field")
	}
}

func TestFieldHelpers(t *testing.T) {
	tests := []struct {
		value   any
		str     string
		boolean bool
	}{
		{nil, "", false},
		{"true", "true", true},
		{"false", "false", false},
		{true, "true", true},
		{3, "3", false},
	}
	for _, tt := range tests {
		f := Field{Value: tt.value}
		if f.String() != tt.str {
			t.Errorf("String(%v) = %q", tt.value, f.String())
		}
		if f.Bool() != tt.boolean {
			t.Errorf("Bool(%v) = %v", tt.value, f.Bool())
		}
	}
}

func TestSubscribe(t *testing.T) {
	c := New(testDefaults())

	var seen []string
	unsubscribe := c.Subscribe(func(name string, value any) {
		// reading inside a callback must not deadlock
		_ = c.Get(name)
		seen = append(seen, fmt.Sprintf("%s=%v", name, value))
	})

	c.Set("address", "a")
	unsubscribe()
	c.Set("address", "b")

	if diff := cmp.Diff([]string{"address=a"}, seen); diff != "" {
		t.Errorf("notifications (-want +got):\n%s", diff)
	}
}

func TestValidateRevealsAll(t *testing.T) {
	c := New(testDefaults(), WithSchema(testSchema()))
	if c.Validate() {
		t.Fatal("pick is unset, form is invalid")
	}
	if c.FieldError("pick") == "" {
		t.Error("Validate should reveal untouched failures")
	}
}

func TestReset(t *testing.T) {
	c := New(testDefaults(), WithSchema(testSchema()))
	c.Set("address", "")
	c.HandleSubmit(func(Values) {})()

	c.Reset()

	if c.Get("address") != "asd" || len(c.Errors()) != 0 || c.IsDirty() || c.IsTouched("address") || c.SubmitCount() != 0 {
		t.Error("Reset should restore a pristine controller")
	}
}

func TestConcurrentSet(t *testing.T) {
	c := New(testDefaults(), WithSchema(testSchema()))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Set("pick", i)
			_ = c.View()
		}(i)
	}
	wg.Wait()

	if _, ok := c.Get("pick").(int); !ok {
		t.Error("pick should hold one of the written ints")
	}
}
