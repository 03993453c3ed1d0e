package content

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type FSLoader struct{}

func NewLoader() *FSLoader { return &FSLoader{} }

// LoadDir reads every content descriptor (*.yaml, *.yml) directly under
// root, validates it, fills defaults, and returns the set ordered by
// content identity.
func (l *FSLoader) LoadDir(root string) ([]Content, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	contents := make([]Content, 0)
	seen := map[string]string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		path := filepath.Join(root, entry.Name())
		c, err := readContent(path)
		if err != nil {
			return nil, fmt.Errorf("load content %s: %w", path, err)
		}
		if prev, ok := seen[c.ContentID]; ok {
			return nil, fmt.Errorf("duplicate content_id %q in %s and %s", c.ContentID, prev, path)
		}
		seen[c.ContentID] = path
		c.Path = path
		applyDefaults(&c)
		contents = append(contents, c)
	}

	sort.Slice(contents, func(i, j int) bool {
		a, _ := strconv.ParseUint(contents[i].ContentID, 10, 64)
		b, _ := strconv.ParseUint(contents[j].ContentID, 10, 64)
		return a < b
	})
	return contents, nil
}

// Find returns the content with the given identity, or the first loaded
// content when id is empty.
func (l *FSLoader) Find(list []Content, id string) (Content, error) {
	if id == "" && len(list) > 0 {
		return list[0], nil
	}
	for _, c := range list {
		if c.ContentID == id {
			return c, nil
		}
	}
	return Content{}, fmt.Errorf("content %s not found", id)
}

func readContent(path string) (Content, error) {
	var c Content
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("validate %s: %w", path, err)
	}
	return c, nil
}

func applyDefaults(c *Content) {
	if c.Language == "" {
		c.Language = "en"
	}
	if c.Behaviour.DualViewMinWidth == 0 {
		c.Behaviour.DualViewMinWidth = 1024
	}
	if c.Behaviour.ShowNotesOnStartup == nil {
		v := false
		c.Behaviour.ShowNotesOnStartup = &v
	}
	if c.Behaviour.DateStamp == nil {
		v := true
		c.Behaviour.DateStamp = &v
	}
	if c.Fields.Recall.Rows <= 0 {
		c.Fields.Recall.Rows = 6
	}
	if c.Fields.Notes.Rows <= 0 {
		c.Fields.Notes.Rows = 10
	}
	if c.Fields.Summary.Rows <= 0 {
		c.Fields.Summary.Rows = 5
	}
	if c.Fields.Recall.Placeholder == "" {
		c.Fields.Recall.Placeholder = "Cue questions and key words"
	}
	if c.Fields.Notes.Placeholder == "" {
		c.Fields.Notes.Placeholder = "Notes"
	}
	if c.Fields.Summary.Placeholder == "" {
		c.Fields.Summary.Placeholder = "Summary"
	}
}

// Default is the built-in content used when no descriptor directory is
// available, so the host shell always has something to run.
func Default() Content {
	c := Content{
		Kind:          ContentKind,
		SchemaVersion: SupportedSchemaVersion,
		ContentID:     "1",
		Title:         "Cornell Notes",
		DescriptionMD: "Structured note taking with cue, notes, and summary fields.",
		TaskMD: "# Take Cornell notes\n\n" +
			"Work through the material on your own, then capture it here:\n\n" +
			"- **Recall** holds cue questions and key words.\n" +
			"- **Notes** holds the substance.\n" +
			"- **Summary** condenses the page in your own words.\n",
	}
	applyDefaults(&c)
	return c
}
