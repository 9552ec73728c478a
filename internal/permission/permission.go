// Package permission grants module/function pairs to users. The current
// user travels in the request context.
package permission

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/goliatone/go-repoforms/pkg/content"
)

// HeaderUser carries the user id of a request.
const HeaderUser = "X-User"

// Anonymous is the user of requests without HeaderUser.
const Anonymous = "anonymous"

type userKey struct{}

// WithUser returns a context carrying user.
func WithUser(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFromContext returns the user of ctx or Anonymous.
func UserFromContext(ctx context.Context) string {
	if user, ok := ctx.Value(userKey{}).(string); ok && user != "" {
		return user
	}
	return Anonymous
}

// Middleware stores the X-User header in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := strings.TrimSpace(r.Header.Get(HeaderUser))
		if user == "" {
			user = Anonymous
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// Grant is one "module/function" pair. "*" matches any module or function.
type Grant string

// Policy maps users to grants. The "*" user applies to everyone.
type Policy map[string][]Grant

// PolicyResolver implements content.PermissionResolver over a Policy.
// Targets are not inspected.
type PolicyResolver struct {
	mu     sync.RWMutex
	policy Policy
}

var _ content.PermissionResolver = (*PolicyResolver)(nil)

// NewPolicyResolver returns a resolver for policy.
func NewPolicyResolver(policy Policy) *PolicyResolver {
	r := &PolicyResolver{policy: make(Policy, len(policy))}
	for user, grants := range policy {
		r.policy[user] = append([]Grant(nil), grants...)
	}
	return r
}

// AllowAll grants everything to every user.
func AllowAll() *PolicyResolver {
	return NewPolicyResolver(Policy{"*": {"*/*"}})
}

// Grant adds grants for user.
func (r *PolicyResolver) Grant(user string, grants ...Grant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.policy[user] = append(r.policy[user], grants...)
}

// CanUser reports whether the user in ctx holds module/function.
func (r *PolicyResolver) CanUser(ctx context.Context, module, function string, _ any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	user := UserFromContext(ctx)

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, who := range []string{user, "*"} {
		for _, g := range r.policy[who] {
			if g.allows(module, function) {
				return true, nil
			}
		}
	}
	return false, nil
}

func (g Grant) allows(module, function string) bool {
	m, f, ok := strings.Cut(string(g), "/")
	if !ok {
		return false
	}
	return (m == "*" || m == module) && (f == "*" || f == function)
}
