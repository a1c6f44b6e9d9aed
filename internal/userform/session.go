package userform

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/vango-dev/userform/internal/errors"
	"github.com/vango-dev/userform/internal/pokeapi"
	"github.com/vango-dev/userform/pkg/features/form"
	"github.com/vango-dev/userform/pkg/features/resource"
	"github.com/vango-dev/userform/pkg/fields"
	"github.com/vango-dev/userform/pkg/render"
	"github.com/vango-dev/userform/pkg/vdom"
)

// Result is the outcome of a submit attempt.
type Result struct {
	// Accepted is true when the observer received the values.
	Accepted bool

	// Values is the snapshot handed to the observer.
	Values form.Values

	// Errors holds the failing fields of a rejected submit.
	Errors form.Errors
}

// Session owns one form. Its methods serialize every read and write of the
// form, so a session may be driven from several goroutines (an HTTP request
// and a live connection) without interleaving.
type Session struct {
	ID string

	page     *Page
	observer Observer
	config   render.RendererConfig

	mu        sync.Mutex
	ctrl      *form.Controller
	handlers  map[string]vdom.ChangeHandler
	bound     []pokeapi.Record // listing the handlers were rendered from
	submitted bool
}

// NewSession returns a session with a fresh controller.
func NewSession(id string, page *Page, observer Observer, config render.RendererConfig) *Session {
	if observer == nil {
		observer = LogObserver(nil)
	}
	return &Session{
		ID:       id,
		page:     page,
		observer: observer,
		config:   config,
		ctrl:     NewController(),
	}
}

// Controller returns the session's form controller.
func (s *Session) Controller() *form.Controller { return s.ctrl }

// Submitted reports whether the last submit attempt was accepted.
func (s *Session) Submitted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitted
}

// Fragment renders the page content, the element with id RootID.
func (s *Session) Fragment() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	if err := s.renderLocked(func(r *render.Renderer, body *vdom.VNode) error {
		return r.RenderToWriter(&buf, body)
	}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Document renders the complete HTML document with scripts appended to
// the body.
func (s *Session) Document(scripts ...string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	err := s.renderLocked(func(r *render.Renderer, body *vdom.VNode) error {
		return r.RenderPage(&buf, render.PageData{
			Title:   Title,
			Body:    body,
			Styles:  []string{fields.CSS(), pageCSS},
			Scripts: scripts,
		})
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Session) renderLocked(write func(r *render.Renderer, body *vdom.VNode) error) error {
	snap := s.page.Listing().Snapshot()
	r := render.NewRenderer(s.config)
	if err := write(r, s.page.render(s.ctrl.View(), snap)); err != nil {
		return err
	}
	s.handlers = r.Handlers()
	s.bound = nil
	if snap.State == resource.Ready {
		s.bound = snap.Data
	}
	return nil
}

// bindLocked makes the handlers match the listing as it is now. Handlers of
// a form that is no longer shown are dropped; a form that became ready, or
// was refetched, since the last render is rendered again to bind its
// controls.
func (s *Session) bindLocked() error {
	snap := s.page.Listing().Snapshot()
	if snap.State != resource.Ready {
		s.handlers, s.bound = nil, nil
		return nil
	}
	if s.handlers != nil && s.bound != nil && sameSlice(s.bound, snap.Data) {
		return nil
	}
	return s.renderLocked(func(r *render.Renderer, body *vdom.VNode) error {
		return r.RenderToWriter(io.Discard, body)
	})
}

// Apply feeds a raw control value to the change handler of the named
// field, exactly as the browser control would. Only fields with a control
// on the current page accept values.
func (s *Session) Apply(name, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.bindLocked(); err != nil {
		return err
	}
	handler, ok := s.handlers[name]
	if !ok {
		return errors.New(errors.CodeNotRendered).WithDetail(fmt.Sprintf("field %q has no control on the current page", name))
	}
	handler(raw)
	return nil
}

// Submit runs the submit action. It is rejected with CodeNotRendered
// while the listing is not ready and the form is not shown, with
// CodeSubmitDisabled while the submit button is disabled, and with
// CodeValidation when the schema fails; the observer is only called for
// an accepted submit.
func (s *Session) Submit(ctx context.Context) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.submitted = false
	if state := s.page.Listing().State(); state != resource.Ready {
		s.handlers, s.bound = nil, nil
		return Result{}, errors.New(errors.CodeNotRendered).
			WithDetail(fmt.Sprintf("the form is not shown while the listing is %s", state))
	}
	if !SubmitEnabled(s.ctrl.View()) {
		return Result{}, errors.New(errors.CodeSubmitDisabled)
	}

	var values form.Values
	accepted := s.ctrl.HandleSubmit(func(v form.Values) {
		values = v
		s.observer.Submitted(ctx, v)
	})()
	if !accepted {
		return Result{Errors: s.ctrl.Errors()}, s.ctrl.ValidationError()
	}
	s.submitted = true
	return Result{Accepted: true, Values: values}, nil
}
