package view

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// ErrNoInterceptor is returned by Interceptors for unregistered controllers.
var ErrNoInterceptor = errors.New("view: no interceptor registered")

// Interceptor filters the view parameters of one request.
type Interceptor interface {
	Filter(ctx context.Context, event *FilterParametersEvent) error
}

// InterceptorFunc adapts a function to Interceptor.
type InterceptorFunc func(ctx context.Context, event *FilterParametersEvent) error

// Filter implements Interceptor.
func (fn InterceptorFunc) Filter(ctx context.Context, event *FilterParametersEvent) error {
	return fn(ctx, event)
}

// Dispatcher runs the interceptors registered for the controller of an
// event, in registration order.
type Dispatcher struct {
	mu           sync.RWMutex
	interceptors map[string][]Interceptor
	logger       *zap.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatcherLogger sets the logger.
func WithDispatcherLogger(logger *zap.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDispatcher returns an empty dispatcher.
func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		interceptors: make(map[string][]Interceptor),
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Register adds an interceptor for a controller.
func (d *Dispatcher) Register(controller string, interceptor Interceptor) error {
	controller = strings.TrimSpace(controller)
	if controller == "" {
		return fmt.Errorf("view: controller is required")
	}
	if interceptor == nil {
		return fmt.Errorf("view: interceptor for %q is nil", controller)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.interceptors[controller] = append(d.interceptors[controller], interceptor)
	return nil
}

// MustRegister panics when Register fails.
func (d *Dispatcher) MustRegister(controller string, interceptor Interceptor) {
	if err := d.Register(controller, interceptor); err != nil {
		panic(err)
	}
}

// Interceptors returns the interceptors of a controller.
func (d *Dispatcher) Interceptors(controller string) ([]Interceptor, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	list, ok := d.interceptors[controller]
	if !ok || len(list) == 0 {
		return nil, fmt.Errorf("%w for %q", ErrNoInterceptor, controller)
	}
	return append([]Interceptor(nil), list...), nil
}

// Controllers lists controllers with interceptors, sorted.
func (d *Dispatcher) Controllers() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]string, 0, len(d.interceptors))
	for controller := range d.interceptors {
		out = append(out, controller)
	}
	sort.Strings(out)
	return out
}

// Dispatch runs the interceptors of the event's controller. Events for other
// controllers pass through untouched. The first error stops the chain.
func (d *Dispatcher) Dispatch(ctx context.Context, event *FilterParametersEvent) error {
	if event == nil {
		return fmt.Errorf("view: event is nil")
	}
	event.Bag()
	controller := event.Controller()
	list, err := d.Interceptors(controller)
	if err != nil {
		return nil
	}
	for _, interceptor := range list {
		if err := interceptor.Filter(ctx, event); err != nil {
			d.logger.Debug("view interceptor failed",
				zap.String("controller", controller),
				zap.String("route", event.Request.Route),
				zap.Error(err),
			)
			return err
		}
	}
	return nil
}
