package userform

import (
	"context"
	"log/slog"

	"github.com/vango-dev/userform/pkg/features/form"
)

// Observer receives every accepted submission.
type Observer interface {
	Submitted(ctx context.Context, values form.Values)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, values form.Values)

func (f ObserverFunc) Submitted(ctx context.Context, values form.Values) {
	f(ctx, values)
}

// LogObserver logs each submission at info level.
func LogObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return ObserverFunc(func(ctx context.Context, values form.Values) {
		attrs := make([]any, 0, len(values))
		for _, name := range []string{FieldPokemonFan, FieldAddress, FieldDescription, FieldSelect, FieldPokemon} {
			attrs = append(attrs, slog.Any(name, values[name]))
		}
		logger.InfoContext(ctx, "form submitted", slog.Group("values", attrs...))
	})
}

// Observers fans a submission out to each observer in order.
func Observers(observers ...Observer) Observer {
	return ObserverFunc(func(ctx context.Context, values form.Values) {
		for _, o := range observers {
			if o != nil {
				o.Submitted(ctx, values.Clone())
			}
		}
	})
}
