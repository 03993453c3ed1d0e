package xapi

import "strings"

// Builder assembles statements for one content instance. Language is the
// resolved language tag; Title and Description come from the content
// metadata.
type Builder struct {
	Language    string
	Title       string
	Description string
}

// InertResult is the fixed result for this content type: zero out of a
// maximum of zero, successful and complete. The activity is reflective,
// so credit must never be derived from what the learner typed.
func InertResult() Result {
	return Result{Score: Score{}, Success: true, Completion: true}
}

// BuildDefinition returns the activity definition with name and
// description keyed by the resolved language tag and duplicated under the
// fallback locale.
func (b Builder) BuildDefinition() Definition {
	return Definition{
		Name:            b.localized(b.Title),
		Description:     b.localized(b.Description),
		Type:            ActivityType,
		InteractionType: InteractionType,
	}
}

// BuildAnswered composes the host's base template with the definition and
// the fixed result under the answered verb. Whether an answer was given
// at all stays the renderer's judgment; it never changes this record.
func (b Builder) BuildAnswered(tmpl Template) Statement {
	def := b.BuildDefinition()
	return Statement{
		Actor: tmpl.Actor,
		Verb: Verb{
			ID:      VerbAnsweredID,
			Display: LocalizedString{FallbackLocale: "answered"},
		},
		Object: Activity{
			ID:         tmpl.ActivityID,
			ObjectType: "Activity",
			Definition: &def,
		},
		Context: tmpl.Context,
		Result:  InertResult(),
	}
}

func (b Builder) localized(text string) LocalizedString {
	lang := strings.TrimSpace(b.Language)
	if lang == "" {
		lang = FallbackLocale
	}
	out := LocalizedString{lang: text}
	out[FallbackLocale] = text
	return out
}
