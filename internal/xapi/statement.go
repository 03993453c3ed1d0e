package xapi

import "encoding/json"

const (
	// ActivityType and InteractionType describe a free-text interaction.
	// They are fixed for this content type.
	ActivityType    = "http://adlnet.gov/expapi/activities/cmi.interaction"
	InteractionType = "fill-in"

	VerbAnsweredID = "http://adlnet.gov/expapi/verbs/answered"

	// FallbackLocale is the locale key duplicated into every localized
	// map for consumers that only understand one locale.
	FallbackLocale = "en-US"
)

type LocalizedString map[string]string

type Definition struct {
	Name            LocalizedString `json:"name"`
	Description     LocalizedString `json:"description"`
	Type            string          `json:"type"`
	InteractionType string          `json:"interactionType"`
}

type Score struct {
	Min    int     `json:"min"`
	Raw    int     `json:"raw"`
	Max    int     `json:"max"`
	Scaled float64 `json:"scaled"`
}

type Result struct {
	Score      Score `json:"score"`
	Success    bool  `json:"success"`
	Completion bool  `json:"completion"`
}

type Verb struct {
	ID      string          `json:"id"`
	Display LocalizedString `json:"display"`
}

type Activity struct {
	ID         string      `json:"id,omitempty"`
	ObjectType string      `json:"objectType,omitempty"`
	Definition *Definition `json:"definition,omitempty"`
}

// Statement is the outbound activity record. Actor and Context come from
// the host's base template and pass through untouched. ID stays empty
// until a consumer that stores statements assigns one.
type Statement struct {
	ID      string          `json:"id,omitempty"`
	Actor   json.RawMessage `json:"actor,omitempty"`
	Verb    Verb            `json:"verb"`
	Object  Activity        `json:"object"`
	Context json.RawMessage `json:"context,omitempty"`
	Result  Result          `json:"result"`
}

// Template is the externally supplied base event: the host knows the
// learner and the launch context, the widget does not.
type Template struct {
	Actor      json.RawMessage
	Context    json.RawMessage
	ActivityID string
}

// Data is the envelope hosts expect from a state query for reporting.
type Data struct {
	Statement Statement `json:"statement"`
}
