package resource

import (
	"github.com/vango-dev/userform/pkg/vdom"
)

// Snapshot is a consistent read of a resource taken for one render pass.
type Snapshot[T any] struct {
	State State
	Data  T
	Err   error
}

// Handler handles a specific resource state.
type Handler[T any] interface {
	handle(Snapshot[T]) (*vdom.VNode, bool)
}

// Match renders the first handler that accepts the snapshot's state, or nil.
func (s Snapshot[T]) Match(handlers ...Handler[T]) *vdom.VNode {
	for _, h := range handlers {
		if node, ok := h.handle(s); ok {
			return node
		}
	}
	return nil
}

// Match renders a fresh snapshot of r.
func (r *Resource[T]) Match(handlers ...Handler[T]) *vdom.VNode {
	return r.Snapshot().Match(handlers...)
}

// Handler implementations

type stateHandler[T any] struct {
	states []State
	fn     func(Snapshot[T]) *vdom.VNode
}

func (h stateHandler[T]) handle(s Snapshot[T]) (*vdom.VNode, bool) {
	for _, st := range h.states {
		if s.State == st {
			return h.fn(s), true
		}
	}
	return nil, false
}

// Constructors

// OnPending handles the Pending state.
func OnPending[T any](fn func() *vdom.VNode) Handler[T] {
	return stateHandler[T]{states: []State{Pending}, fn: func(Snapshot[T]) *vdom.VNode { return fn() }}
}

// OnLoading handles the Loading state.
func OnLoading[T any](fn func() *vdom.VNode) Handler[T] {
	return stateHandler[T]{states: []State{Loading}, fn: func(Snapshot[T]) *vdom.VNode { return fn() }}
}

// OnError handles the Error state.
func OnError[T any](fn func(error) *vdom.VNode) Handler[T] {
	return stateHandler[T]{states: []State{Error}, fn: func(s Snapshot[T]) *vdom.VNode { return fn(s.Err) }}
}

// OnReady handles the Ready state.
func OnReady[T any](fn func(T) *vdom.VNode) Handler[T] {
	return stateHandler[T]{states: []State{Ready}, fn: func(s Snapshot[T]) *vdom.VNode { return fn(s.Data) }}
}

// OnLoadingOrPending handles both Loading and Pending states.
func OnLoadingOrPending[T any](fn func() *vdom.VNode) Handler[T] {
	return stateHandler[T]{states: []State{Pending, Loading}, fn: func(Snapshot[T]) *vdom.VNode { return fn() }}
}
