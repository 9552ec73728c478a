package form

import "context"

// Route names of the content form pages.
const (
	RouteContentCreateNoDraft = "ez_content_create_no_draft"
	RouteContentDraftEdit     = "ez_content_draft_edit"
	RouteContentTranslate     = "ezplatform.content.translate"
)

// RequestInfo carries the routing details of the current request that
// components may vary their rendering on.
type RequestInfo struct {
	Route      string
	Controller string
	Attributes map[string]string
}

// Attribute returns a route attribute or "".
func (r RequestInfo) Attribute(name string) string {
	if r.Attributes == nil {
		return ""
	}
	return r.Attributes[name]
}

type requestInfoKey struct{}

// ContextWithRequest stores request details for view hooks.
func ContextWithRequest(ctx context.Context, info RequestInfo) context.Context {
	return context.WithValue(ctx, requestInfoKey{}, info)
}

// RequestFromContext returns the stored request details.
func RequestFromContext(ctx context.Context) (RequestInfo, bool) {
	if ctx == nil {
		return RequestInfo{}, false
	}
	info, ok := ctx.Value(requestInfoKey{}).(RequestInfo)
	return info, ok
}

// RouteFromContext returns the current route name or "".
func RouteFromContext(ctx context.Context) string {
	info, _ := RequestFromContext(ctx)
	return info.Route
}
