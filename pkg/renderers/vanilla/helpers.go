package vanilla

import (
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"
)

var (
	helpPolicyOnce sync.Once
	helpPolicy     *bluemonday.Policy
)

// sanitizeHelp keeps inline formatting and links in field descriptions and
// drops everything else.
func sanitizeHelp(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(helpSanitizer().Sanitize(trimmed))
}

func helpSanitizer() *bluemonday.Policy {
	helpPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("b", "strong", "i", "em", "code", "br", "p")
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowStandardURLs()
		policy.RequireNoFollowOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
		helpPolicy = policy
	})
	return helpPolicy
}

func sanitizeClassList(value string) string {
	tokens := strings.Fields(value)
	keep := tokens[:0]
	for _, token := range tokens {
		if strings.ContainsAny(token, `"'<>`) {
			continue
		}
		keep = append(keep, token)
	}
	return strings.Join(keep, " ")
}

type rendererTheme struct {
	Name         string `json:"name,omitempty"`
	Variant      string `json:"variant,omitempty"`
	CSSVarsStyle string `json:"css_vars_style,omitempty"`
}

func buildThemeContext(cfg *theme.RendererConfig) (rendererTheme, map[string]string) {
	if cfg == nil {
		return rendererTheme{}, nil
	}
	return rendererTheme{
		Name:         cfg.Theme,
		Variant:      cfg.Variant,
		CSSVarsStyle: cssVarsStyle(cfg.CSSVars),
	}, cfg.Partials
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		if strings.HasPrefix(key, "--") && !strings.ContainsAny(key+vars[key], ";{}<>\"") {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+vars[key])
	}
	return strings.Join(parts, "; ")
}

func themeAsset(cfg *theme.RendererConfig, key string) string {
	if cfg == nil || cfg.AssetURL == nil {
		return ""
	}
	return cfg.AssetURL(key)
}
