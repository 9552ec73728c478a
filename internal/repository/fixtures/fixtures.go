// Package fixtures loads content types and locations from YAML files. The
// in-memory repository is seeded from them and the postgres repository can
// import them once the schema is migrated.
package fixtures

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-repoforms/pkg/content"
)

// File names looked up inside a fixture directory.
const (
	ContentTypesFile = "content_types.yaml"
	LocationsFile    = "locations.yaml"
	ContentsFile     = "contents.yaml"
)

//go:embed data/*.yaml
var defaults embed.FS

// Set is the decoded content of a fixture directory.
type Set struct {
	ContentTypes []content.ContentType `yaml:"contentTypes"`
	Locations    []content.Location    `yaml:"locations"`
	Contents     []content.Content     `yaml:"contents"`
}

// Default returns the fixtures bundled with the module.
func Default() (Set, error) {
	return Load(defaults, "data")
}

// Load reads the fixture files found in dir. Missing files are skipped; a
// directory without a content types file is an error.
func Load(fsys fs.FS, dir string) (Set, error) {
	var set Set
	if err := decode(fsys, path.Join(dir, ContentTypesFile), &set.ContentTypes); err != nil {
		return Set{}, err
	}
	if len(set.ContentTypes) == 0 {
		return Set{}, fmt.Errorf("fixtures: %s defines no content types", path.Join(dir, ContentTypesFile))
	}
	if err := decodeOptional(fsys, path.Join(dir, LocationsFile), &set.Locations); err != nil {
		return Set{}, err
	}
	if err := decodeOptional(fsys, path.Join(dir, ContentsFile), &set.Contents); err != nil {
		return Set{}, err
	}
	if err := set.validate(); err != nil {
		return Set{}, err
	}
	return set, nil
}

func decode(fsys fs.FS, name string, out any) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("fixtures: read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("fixtures: decode %s: %w", name, err)
	}
	return nil
}

func decodeOptional(fsys fs.FS, name string, out any) error {
	err := decode(fsys, name, out)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (s Set) validate() error {
	identifiers := make(map[string]struct{}, len(s.ContentTypes))
	for i, ct := range s.ContentTypes {
		if err := ct.Validate(); err != nil {
			return fmt.Errorf("fixtures: content type %d: %w", i, err)
		}
		if _, dup := identifiers[ct.Identifier]; dup {
			return fmt.Errorf("fixtures: duplicate content type %q", ct.Identifier)
		}
		identifiers[ct.Identifier] = struct{}{}
	}

	locations := make(map[int64]struct{}, len(s.Locations))
	for _, loc := range s.Locations {
		if loc.ID <= 0 {
			return fmt.Errorf("fixtures: location ids must be positive, got %d", loc.ID)
		}
		if _, dup := locations[loc.ID]; dup {
			return fmt.Errorf("fixtures: duplicate location %d", loc.ID)
		}
		locations[loc.ID] = struct{}{}
	}
	for _, c := range s.Contents {
		if _, ok := identifiers[c.ContentTypeIdentifier]; !ok {
			return fmt.Errorf("fixtures: content %d uses unknown content type %q", c.ID, c.ContentTypeIdentifier)
		}
	}
	return nil
}
