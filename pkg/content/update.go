package content

import "github.com/peterbourgon/mergemap"

// Apply returns a copy of the definition with the update applied. Names and
// descriptions are replaced per language, settings and validator
// configuration are merged key by key (nested maps included).
func (u FieldDefinitionUpdateStruct) Apply(fd FieldDefinition) FieldDefinition {
	out := fd
	if u.Names != nil {
		out.Names = mergeStrings(fd.Names, u.Names)
	}
	if u.Descriptions != nil {
		out.Descriptions = mergeStrings(fd.Descriptions, u.Descriptions)
	}
	if u.IsRequired != nil {
		out.IsRequired = *u.IsRequired
	}
	if u.Position != nil {
		out.Position = *u.Position
	}
	if u.FieldSettings != nil {
		out.FieldSettings = mergemap.Merge(CloneMap(fd.FieldSettings), CloneMap(u.FieldSettings))
	}
	if u.ValidatorConfiguration != nil {
		out.ValidatorConfiguration = mergemap.Merge(CloneMap(fd.ValidatorConfiguration), CloneMap(u.ValidatorConfiguration))
	}
	return out
}

// CloneMap copies m and every nested map[string]any in it. Other values are
// shared.
func CloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			v = CloneMap(nested)
		}
		out[k] = v
	}
	return out
}

func mergeStrings(dst, src map[string]string) map[string]string {
	out := make(map[string]string, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range src {
		out[k] = v
	}
	return out
}
