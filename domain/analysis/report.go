// Package analysis defines the result types produced by the dataset
// analysis pipeline: the cleaning report, plot recommendations, the AI
// insight bundle and the terminal AnalysisResult aggregate.
package analysis

import (
	"bytes"
	"encoding/json"
)

// OutcomeNoneFound is the report outcome recorded when a cleaning step had
// nothing to do. Steps always report, even when idle.
const OutcomeNoneFound = "none found"

// ReportEntry pairs a cleaning action with its human-readable outcome
type ReportEntry struct {
	Action  string `json:"action"`
	Outcome string `json:"outcome"`
}

// CleaningReport is an append-only, ordered record of every cleaning action
// taken. It serializes as an ordered JSON object keyed by action name.
type CleaningReport struct {
	entries []ReportEntry
}

// Add appends an action outcome to the report
func (r *CleaningReport) Add(action, outcome string) {
	r.entries = append(r.entries, ReportEntry{Action: action, Outcome: outcome})
}

// Get returns the outcome for an action, if recorded
func (r *CleaningReport) Get(action string) (string, bool) {
	for _, e := range r.entries {
		if e.Action == action {
			return e.Outcome, true
		}
	}
	return "", false
}

// Entries returns the recorded entries in insertion order
func (r *CleaningReport) Entries() []ReportEntry {
	out := make([]ReportEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of recorded entries
func (r *CleaningReport) Len() int {
	return len(r.entries)
}

// MarshalJSON encodes the report as a JSON object preserving insertion order
func (r CleaningReport) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range r.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Action)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Outcome)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into the report. Key order follows the
// document order of the object.
func (r *CleaningReport) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok != json.Delim('{') {
		return &json.UnmarshalTypeError{Value: "non-object", Type: nil}
	}
	r.entries = nil
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		var outcome string
		if err := dec.Decode(&outcome); err != nil {
			return err
		}
		r.entries = append(r.entries, ReportEntry{Action: keyTok.(string), Outcome: outcome})
	}
	_, err = dec.Token()
	return err
}
