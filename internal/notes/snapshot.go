package notes

import (
	"encoding/json"
	"fmt"
)

// Snapshot is one complete capture of the three note fields. Extra carries
// renderer-defined sub-state (for example the session date stamp) keyed by
// field name. A Snapshot is read and written whole, never field by field.
type Snapshot struct {
	Recall  string            `json:"recall"`
	Notes   string            `json:"notes"`
	Summary string            `json:"summary"`
	Extra   map[string]string `json:"extra,omitempty"`
}

// IsEmpty reports whether the snapshot holds nothing worth keeping: all
// three fields blank and no renderer extension values.
func (s Snapshot) IsEmpty() bool {
	return s.Recall == "" && s.Notes == "" && s.Summary == "" && len(s.Extra) == 0
}

// Clone returns a copy that shares no map storage with the receiver.
func (s Snapshot) Clone() Snapshot {
	out := s
	if s.Extra != nil {
		out.Extra = make(map[string]string, len(s.Extra))
		for k, v := range s.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

// Encode serializes the snapshot for cache or host storage.
func (s Snapshot) Encode() (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	return string(b), nil
}

// Decode parses a stored snapshot payload.
func Decode(raw string) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}
