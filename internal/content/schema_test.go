package content

import "testing"

func validContent() Content {
	return Content{
		Kind:          ContentKind,
		SchemaVersion: SupportedSchemaVersion,
		ContentID:     "42",
		Title:         "Lecture 4",
		Language:      "en",
	}
}

func TestValidateRejectsUnsupportedSchemaVersion(t *testing.T) {
	c := validContent()
	c.SchemaVersion = SupportedSchemaVersion + 1
	if err := c.Validate(); err == nil {
		t.Fatalf("expected unsupported schema version error")
	}
}

func TestValidateRejectsWrongKind(t *testing.T) {
	c := validContent()
	c.Kind = "quiz"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected kind error")
	}
}

func TestValidateRejectsNonNumericContentID(t *testing.T) {
	for _, id := range []string{"", "abc", "12a", "-4"} {
		c := validContent()
		c.ContentID = id
		if err := c.Validate(); err == nil {
			t.Fatalf("expected content_id error for %q", id)
		}
	}
}

func TestValidateRejectsMalformedLanguageTag(t *testing.T) {
	c := validContent()
	c.Language = "english_us"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected language tag error")
	}
	c.Language = "de-DE"
	if err := c.Validate(); err != nil {
		t.Fatalf("region subtags should validate: %v", err)
	}
}

func TestValidateAllowsEmptyTitle(t *testing.T) {
	c := validContent()
	c.Title = ""
	if err := c.Validate(); err != nil {
		t.Fatalf("title is optional, widget falls back to its default label: %v", err)
	}
}

func TestValidateRejectsNegativeFieldSizes(t *testing.T) {
	c := validContent()
	c.Fields.Notes.Rows = -1
	if err := c.Validate(); err == nil {
		t.Fatalf("expected rows error")
	}
}
