// Package view resolves forms for view requests. Interceptors are registered
// per controller on a Dispatcher; each one reads the route attributes of the
// request and publishes what the view needs into a parameter bag.
package view

import (
	"net/http"
	"sort"

	"github.com/goliatone/go-repoforms/pkg/form"
)

// Parameter bag keys.
const (
	ParamController  = "_controller"
	ParamRoute       = "_route"
	ParamForm        = "form"
	ParamData        = "data"
	ParamContentType = "contentType"
	ParamLocation    = "location"
	ParamContent     = "content"
)

// Route attribute names.
const (
	AttrLanguage              = "language"
	AttrFromLanguage          = "fromLanguage"
	AttrContentTypeIdentifier = "contentTypeIdentifier"
	AttrParentLocationID      = "parentLocationId"
	AttrContentID             = "contentId"
	AttrVersionNo             = "versionNo"
)

// Request is the routed request a view is built for.
type Request struct {
	HTTP       *http.Request
	Route      string
	Controller string
	Attributes map[string]string
}

// Attribute returns a route attribute or "".
func (r Request) Attribute(name string) string {
	if r.Attributes == nil {
		return ""
	}
	return r.Attributes[name]
}

// Info converts the request to the routing details form components read.
func (r Request) Info() form.RequestInfo {
	attrs := make(map[string]string, len(r.Attributes))
	for k, v := range r.Attributes {
		attrs[k] = v
	}
	return form.RequestInfo{Route: r.Route, Controller: r.Controller, Attributes: attrs}
}

// ParameterBag holds the parameters handed to the view builder.
type ParameterBag struct {
	values map[string]any
}

// NewParameterBag returns a bag seeded with values.
func NewParameterBag(values map[string]any) *ParameterBag {
	bag := &ParameterBag{values: make(map[string]any, len(values))}
	bag.Add(values)
	return bag
}

// Get returns a parameter or nil.
func (b *ParameterBag) Get(key string) any {
	if b == nil || b.values == nil {
		return nil
	}
	return b.values[key]
}

// Has reports whether key is set.
func (b *ParameterBag) Has(key string) bool {
	if b == nil || b.values == nil {
		return false
	}
	_, ok := b.values[key]
	return ok
}

// Set stores a parameter. It is a no-op on a nil bag.
func (b *ParameterBag) Set(key string, value any) {
	if b == nil {
		return
	}
	if b.values == nil {
		b.values = make(map[string]any)
	}
	b.values[key] = value
}

// Add stores every entry of values, replacing existing keys.
func (b *ParameterBag) Add(values map[string]any) {
	for k, v := range values {
		b.Set(k, v)
	}
}

// Keys returns the parameter names, sorted.
func (b *ParameterBag) Keys() []string {
	if b == nil {
		return nil
	}
	keys := make([]string, 0, len(b.values))
	for k := range b.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Form returns the published form, if any.
func (b *ParameterBag) Form() (*form.Form, bool) {
	f, ok := b.Get(ParamForm).(*form.Form)
	return f, ok && f != nil
}

// FilterParametersEvent carries the request and the mutable parameter bag
// through the interceptors of a controller.
type FilterParametersEvent struct {
	Request    Request
	Parameters *ParameterBag
}

// NewFilterParametersEvent seeds the bag with the controller and route.
func NewFilterParametersEvent(req Request) *FilterParametersEvent {
	return &FilterParametersEvent{
		Request: req,
		Parameters: NewParameterBag(map[string]any{
			ParamController: req.Controller,
			ParamRoute:      req.Route,
		}),
	}
}

// Bag returns the parameter bag, creating an empty one for events built
// without NewFilterParametersEvent.
func (e *FilterParametersEvent) Bag() *ParameterBag {
	if e.Parameters == nil {
		e.Parameters = NewParameterBag(nil)
	}
	return e.Parameters
}

// Controller returns the controller parameter of the event.
func (e *FilterParametersEvent) Controller() string {
	if c, ok := e.Parameters.Get(ParamController).(string); ok && c != "" {
		return c
	}
	return e.Request.Controller
}
