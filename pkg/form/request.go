package form

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

const maxMemory = 8 << 20

// HandleRequest binds the request to the root form. It is a no-op when the
// method differs from the form method or when the request carries no values
// under the root name. Binding validates the tree; inspect IsValid and
// Errors afterwards. Only malformed request bodies return an error.
func (f *Form) HandleRequest(r *http.Request) error {
	if r == nil {
		return errors.New("form: request is nil")
	}
	if !strings.EqualFold(r.Method, f.Method()) {
		return nil
	}

	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(maxMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return fmt.Errorf("form: parse request: %w", err)
	}

	values := r.PostForm
	if f.Method() == http.MethodGet {
		values = r.URL.Query()
	}
	return f.HandleValues(values)
}

// HandleValues binds url.Values using the bracketed HTML names of the form.
// Names outside the form root are ignored.
func (f *Form) HandleValues(values url.Values) error {
	scoped := make(url.Values, len(values))
	for name, vals := range values {
		if name == f.name || strings.HasPrefix(name, f.name+"[") {
			scoped[name] = vals
		}
	}
	tree, err := ParseValues(scoped)
	if err != nil {
		return err
	}
	submitted, ok := tree[f.name]
	if !ok {
		return nil
	}
	f.Submit(submitted)
	return nil
}

// ParseValues turns bracketed names (root[a][b]=v, root[list][]=v) into a
// nested map. Leaves are strings, or []string for names ending in [].
// Names are applied in sorted order and a compound always wins over a leaf
// of the same name, so root[a]=x and root[a][b]=y yield {"a": {"b": "y"}}.
func ParseValues(values url.Values) (map[string]any, error) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	tree := make(map[string]any)
	for _, name := range names {
		vals := values[name]
		segments, multiple, err := splitName(name)
		if err != nil {
			return nil, err
		}
		if len(segments) == 0 {
			continue
		}

		node := tree
		for _, segment := range segments[:len(segments)-1] {
			next, ok := node[segment].(map[string]any)
			if !ok {
				next = make(map[string]any)
				node[segment] = next
			}
			node = next
		}

		last := segments[len(segments)-1]
		if _, compound := node[last].(map[string]any); compound {
			continue
		}
		if multiple {
			existing, _ := node[last].([]string)
			node[last] = append(existing, vals...)
			continue
		}
		if len(vals) > 0 {
			node[last] = vals[len(vals)-1]
		} else {
			node[last] = ""
		}
	}
	return tree, nil
}

func splitName(name string) ([]string, bool, error) {
	open := strings.IndexByte(name, '[')
	if open < 0 {
		return []string{name}, false, nil
	}
	segments := []string{name[:open]}
	rest := name[open:]
	multiple := false
	for rest != "" {
		if rest[0] != '[' {
			return nil, false, fmt.Errorf("form: malformed field name %q", name)
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return nil, false, fmt.Errorf("form: malformed field name %q", name)
		}
		segment := rest[1:end]
		rest = rest[end+1:]
		if segment == "" {
			if rest != "" {
				return nil, false, fmt.Errorf("form: empty segment in %q", name)
			}
			multiple = true
			break
		}
		segments = append(segments, segment)
	}
	return segments, multiple, nil
}

// Values flattens the current view data of the tree back into url.Values
// keyed by full name. Buttons and passwords are skipped.
func (f *Form) Values() url.Values {
	out := url.Values{}
	f.appendValues(out)
	return out
}

func (f *Form) appendValues(out url.Values) {
	if f.config.widget.Button || f.config.widget.Name == WidgetPassword {
		return
	}
	if f.IsCompound() {
		for _, child := range f.children {
			child.appendValues(out)
		}
		return
	}
	switch typed := f.viewData.(type) {
	case string:
		if typed == "" && f.config.widget.Name == WidgetCheckbox {
			return
		}
		out.Set(f.FullName(), typed)
	case []string:
		for _, v := range typed {
			out.Add(f.FullName()+"[]", v)
		}
	}
}
