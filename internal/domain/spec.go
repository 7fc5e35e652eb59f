package domain

import "encoding/json"

// CaseSelection is either every case (marshals to true) or a list of case names
type CaseSelection struct {
	All   bool
	Names []string
}

// MarshalJSON implements json.Marshaler
func (c CaseSelection) MarshalJSON() ([]byte, error) {
	if c.All {
		return []byte("true"), nil
	}
	names := c.Names
	if names == nil {
		names = []string{}
	}
	return json.Marshal(names)
}

// Feature is a selected suite inside a spec entry
type Feature struct {
	Name      string        `json:"name"`
	TestCases CaseSelection `json:"testCases"`
}

// SpecEntry describes one selected file. A whole file marshals to its bare
// name; a partial one to {name, features?, testCases?}.
type SpecEntry struct {
	Name      string
	Whole     bool
	Features  []Feature
	TestCases *CaseSelection
}

type specEntryJSON struct {
	Name      string         `json:"name"`
	Features  []Feature      `json:"features,omitempty"`
	TestCases *CaseSelection `json:"testCases,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (e SpecEntry) MarshalJSON() ([]byte, error) {
	if e.Whole {
		return json.Marshal(e.Name)
	}
	return json.Marshal(specEntryJSON{
		Name:      e.Name,
		Features:  e.Features,
		TestCases: e.TestCases,
	})
}

// SpecFiles is true (run everything), an empty list (run nothing) or a list of entries
type SpecFiles struct {
	All     bool
	Entries []SpecEntry
}

// MarshalJSON implements json.Marshaler
func (s SpecFiles) MarshalJSON() ([]byte, error) {
	if s.All {
		return []byte("true"), nil
	}
	entries := s.Entries
	if entries == nil {
		entries = []SpecEntry{}
	}
	return json.Marshal(entries)
}

// ToBeTested wraps the spec files of a local run
type ToBeTested struct {
	SpecFiles SpecFiles `json:"specFiles"`
}

// LocalSpec is the run request understood by the local runner
type LocalSpec struct {
	ToBeTested ToBeTested `json:"toBeTested"`
}

// IsEmpty reports whether nothing was selected
func (s LocalSpec) IsEmpty() bool {
	return !s.ToBeTested.SpecFiles.All && len(s.ToBeTested.SpecFiles.Entries) == 0
}

// CloudEntry is one selected case of a cloud run
type CloudEntry struct {
	RawTitle     string `json:"rawTitle"`
	EscapedTitle string `json:"escapedTitle"`
	File         string `json:"file"`
}

// CloudSpec is the flat list of cases sent to the cloud runner
type CloudSpec []CloudEntry

// MarshalJSON implements json.Marshaler; an empty spec is [] rather than null
func (s CloudSpec) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]CloudEntry(s))
}

// IsEmpty reports whether nothing was selected
func (s CloudSpec) IsEmpty() bool {
	return len(s) == 0
}
