package xapi

import (
	"encoding/json"
	"testing"
)

func TestInertResultNeverCarriesCredit(t *testing.T) {
	res := InertResult()
	if res.Score.Raw != 0 || res.Score.Max != 0 || res.Score.Min != 0 || res.Score.Scaled != 0 {
		t.Fatalf("score must stay 0 of 0, got %#v", res.Score)
	}
	if !res.Success || !res.Completion {
		t.Fatalf("success and completion must both be true, got %#v", res)
	}
}

func TestBuildDefinitionDuplicatesFallbackLocale(t *testing.T) {
	b := Builder{Language: "de", Title: "Notizen", Description: "Cornell Notizen"}
	def := b.BuildDefinition()

	if def.Name["de"] != "Notizen" || def.Name[FallbackLocale] != "Notizen" {
		t.Fatalf("name must appear under both language and fallback: %#v", def.Name)
	}
	if def.Description["de"] != "Cornell Notizen" || def.Description[FallbackLocale] != "Cornell Notizen" {
		t.Fatalf("description must appear under both language and fallback: %#v", def.Description)
	}
	if def.Type != ActivityType || def.InteractionType != InteractionType {
		t.Fatalf("interaction constants changed: %#v", def)
	}
}

func TestBuildDefinitionEmptyLanguageCollapsesToFallback(t *testing.T) {
	def := Builder{Title: "Notes"}.BuildDefinition()
	if len(def.Name) != 1 {
		t.Fatalf("empty language should produce a single fallback entry: %#v", def.Name)
	}
	if def.Name[FallbackLocale] != "Notes" {
		t.Fatalf("missing fallback entry: %#v", def.Name)
	}
}

func TestBuildAnsweredComposesTemplate(t *testing.T) {
	b := Builder{Language: "en", Title: "Notes", Description: "Take notes"}
	tmpl := Template{
		Actor:      json.RawMessage(`{"mbox":"mailto:learner@example.org"}`),
		Context:    json.RawMessage(`{"registration":"r-1"}`),
		ActivityID: "https://example.org/activity/42",
	}
	st := b.BuildAnswered(tmpl)

	if st.Verb.ID != VerbAnsweredID {
		t.Fatalf("unexpected verb %q", st.Verb.ID)
	}
	if string(st.Actor) != string(tmpl.Actor) || string(st.Context) != string(tmpl.Context) {
		t.Fatalf("template actor/context must pass through untouched")
	}
	if st.Object.ID != tmpl.ActivityID {
		t.Fatalf("activity id lost: %#v", st.Object)
	}
	if st.Object.Definition == nil || st.Object.Definition.Name["en"] != "Notes" {
		t.Fatalf("definition not attached: %#v", st.Object.Definition)
	}
	if st.Result != InertResult() {
		t.Fatalf("result must be the fixed inert result, got %#v", st.Result)
	}

	raw, err := json.Marshal(st)
	if err != nil {
		t.Fatalf("marshal statement: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("statement is not valid JSON: %v", err)
	}
	if _, ok := decoded["result"]; !ok {
		t.Fatalf("serialized statement missing result: %s", raw)
	}
}
