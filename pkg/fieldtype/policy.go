package fieldtype

// RequiredPolicy lists per field type exceptions to the required flag of the
// field definition. Keys are field type identifiers, then child names of the
// component widget ("" is the value node itself). A false entry means never
// required, a true entry always required.
type RequiredPolicy map[string]map[string]bool

// DefaultRequiredPolicy returns the built-in exceptions: the enabled switch
// of user accounts and the text of links are never required.
func DefaultRequiredPolicy() RequiredPolicy {
	return RequiredPolicy{
		"ezuser": {"enabled": false},
		"ezurl":  {"text": false},
	}
}

// Required resolves the flag for a child, falling back to fieldRequired.
func (p RequiredPolicy) Required(fieldType, child string, fieldRequired bool) bool {
	if p == nil {
		return fieldRequired
	}
	if overrides, ok := p[fieldType]; ok {
		if forced, ok := overrides[child]; ok {
			return forced
		}
	}
	return fieldRequired
}

// Merge returns a copy of p with other's entries applied on top.
func (p RequiredPolicy) Merge(other RequiredPolicy) RequiredPolicy {
	out := make(RequiredPolicy, len(p)+len(other))
	for _, src := range []RequiredPolicy{p, other} {
		for fieldType, children := range src {
			if out[fieldType] == nil {
				out[fieldType] = make(map[string]bool, len(children))
			}
			for child, required := range children {
				out[fieldType][child] = required
			}
		}
	}
	return out
}
