package probe

import (
	"context"
	"fmt"
)

// Func reports an error when the checked resource is unavailable.
type Func func(ctx context.Context) error

// Flag is satisfied by *atomic.Bool.
type Flag interface {
	Load() bool
}

// NewPingProbe wraps fn so that failures name the probe.
func NewPingProbe(name string, fn Func) Func {
	return func(ctx context.Context) error {
		if fn == nil {
			return nilComponentError(name, "ping function")
		}
		if err := fn(contextOrBackground(ctx)); err != nil {
			return fmt.Errorf("%s probe failed: %w", name, err)
		}
		return nil
	}
}

// NewFlagProbe fails while flag is false. The host flips its serving flag on
// once the listener is accepting and off again when shutdown begins, so
// readiness drops before connections drain.
func NewFlagProbe(name string, flag Flag) Func {
	return func(context.Context) error {
		if flag == nil {
			return nilComponentError(name, "flag")
		}
		if !flag.Load() {
			return fmt.Errorf("%s probe: not ready", name)
		}
		return nil
	}
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func nilComponentError(name, component string) error {
	return fmt.Errorf("%s probe: %s is nil", name, component)
}
