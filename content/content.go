package content

import (
	_ "embed"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed site.yaml
var defaultSite []byte

type Site struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Hero        Hero     `yaml:"hero"`
	Patterns    []Option `yaml:"patterns"`
	Features    Features `yaml:"features"`
	Footer      Footer   `yaml:"footer"`
}

type Hero struct {
	Tagline        string `yaml:"tagline"`
	Headline       string `yaml:"headline"`
	HeadlineAccent string `yaml:"headline_accent"`
	Subheadline    string `yaml:"subheadline"`
	Placeholder    string `yaml:"placeholder"`
	Button         string `yaml:"button"`
}

// Option is one entry of the pattern select. An empty Value means no pattern.
type Option struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

type Features struct {
	Subtitle string    `yaml:"subtitle"`
	Title    string    `yaml:"title"`
	Body     string    `yaml:"body"`
	Cards    []Card    `yaml:"cards"`
	Examples []Example `yaml:"examples"`
	TryTitle string    `yaml:"try_title"`
	TryBody  string    `yaml:"try_body"`
}

type Card struct {
	Title string   `yaml:"title"`
	Items []string `yaml:"items"`
	Wide  bool     `yaml:"wide"`
}

const (
	ExampleDiagram = "diagram"
	ExampleList    = "list"
)

type Example struct {
	Title   string   `yaml:"title"`
	Kind    string   `yaml:"kind"`
	Diagram string   `yaml:"diagram"`
	Items   []string `yaml:"items"`
}

type Footer struct {
	Brand    string      `yaml:"brand"`
	Blurb    string      `yaml:"blurb"`
	DocsPath string      `yaml:"docs_path"`
	Groups   []LinkGroup `yaml:"groups"`
}

type LinkGroup struct {
	Title string `yaml:"title"`
	Links []Link `yaml:"links"`
}

// Link paths are relative to the summarization API base URL.
type Link struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// Default returns the built-in site content.
func Default() (*Site, error) {
	return Parse(defaultSite)
}

// Load reads site content from path, or the built-in content when path is
// empty.
func Load(path string) (*Site, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading site content %s", path)
	}
	site, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "loading site content %s", path)
	}
	return site, nil
}

func Parse(data []byte) (*Site, error) {
	var site Site
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, errors.Wrap(err, "parsing site content")
	}
	if err := site.Validate(); err != nil {
		return nil, err
	}
	return &site, nil
}

func (s *Site) Validate() error {
	if len(s.Patterns) == 0 {
		return errors.New("site content has no patterns")
	}
	seen := make(map[string]bool, len(s.Patterns))
	for _, p := range s.Patterns {
		if seen[p.Value] {
			return errors.Errorf("duplicate pattern %q", p.Value)
		}
		seen[p.Value] = true
		if p.Label == "" {
			return errors.Errorf("pattern %q has no label", p.Value)
		}
	}
	for _, ex := range s.Features.Examples {
		if ex.Kind != ExampleDiagram && ex.Kind != ExampleList {
			return errors.Errorf("example %q has unknown kind %q", ex.Title, ex.Kind)
		}
	}
	return nil
}

// HasPattern reports whether value is one of the selectable patterns.
func (s *Site) HasPattern(value string) bool {
	for _, p := range s.Patterns {
		if p.Value == value {
			return true
		}
	}
	return false
}

// PatternLabel returns the display label for value, or value itself when it
// is not in the catalog.
func (s *Site) PatternLabel(value string) string {
	for _, p := range s.Patterns {
		if p.Value == value {
			return p.Label
		}
	}
	return value
}

// URL joins a link path onto the API base URL.
func URL(baseURL, path string) string {
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}
