package content

import (
	"fmt"
	"regexp"
)

const (
	ContentKind            = "cornell-notes"
	SupportedSchemaVersion = 1
)

// Content identities come from the host numbering scheme, so they are
// plain decimal strings, not slugs.
var contentIDPattern = regexp.MustCompile(`^[0-9]+$`)

var languagePattern = regexp.MustCompile(`^[a-zA-Z]{2,3}(-[a-zA-Z]{2,4})?$`)

type Content struct {
	Kind          string         `yaml:"kind"`
	SchemaVersion int            `yaml:"schema_version"`
	ContentID     string         `yaml:"content_id"`
	Title         string         `yaml:"title"`
	Language      string         `yaml:"language"`
	DescriptionMD string         `yaml:"description_md"`
	TaskMD        string         `yaml:"task_md"`
	Fields        FieldsSpec     `yaml:"fields"`
	Behaviour     BehaviourSpec  `yaml:"behaviour"`
	Extensions    map[string]any `yaml:"extensions"`

	Path string `yaml:"-"`
}

type FieldsSpec struct {
	Recall  FieldSpec `yaml:"recall"`
	Notes   FieldSpec `yaml:"notes"`
	Summary FieldSpec `yaml:"summary"`
}

type FieldSpec struct {
	Placeholder string `yaml:"placeholder"`
	Rows        int    `yaml:"rows"`
	CharLimit   int    `yaml:"char_limit"`
}

type BehaviourSpec struct {
	ShowNotesOnStartup *bool `yaml:"show_notes_on_startup"`
	DualViewMinWidth   int   `yaml:"dual_view_min_width"`
	DateStamp          *bool `yaml:"date_stamp"`
}

func (c Content) Validate() error {
	if c.Kind != ContentKind {
		return fmt.Errorf("kind must be %q", ContentKind)
	}
	if c.SchemaVersion == 0 {
		return fmt.Errorf("schema_version is required")
	}
	if c.SchemaVersion > SupportedSchemaVersion {
		return fmt.Errorf("unsupported schema_version %d (max supported %d)", c.SchemaVersion, SupportedSchemaVersion)
	}
	if !contentIDPattern.MatchString(c.ContentID) {
		return fmt.Errorf("invalid content_id %q (must be a decimal number)", c.ContentID)
	}
	if c.Language != "" && !languagePattern.MatchString(c.Language) {
		return fmt.Errorf("invalid language tag %q", c.Language)
	}
	if c.Behaviour.DualViewMinWidth < 0 {
		return fmt.Errorf("behaviour.dual_view_min_width must be >= 0")
	}
	for name, f := range map[string]FieldSpec{
		"recall":  c.Fields.Recall,
		"notes":   c.Fields.Notes,
		"summary": c.Fields.Summary,
	} {
		if f.Rows < 0 {
			return fmt.Errorf("fields.%s.rows must be >= 0", name)
		}
		if f.CharLimit < 0 {
			return fmt.Errorf("fields.%s.char_limit must be >= 0", name)
		}
	}
	return nil
}
