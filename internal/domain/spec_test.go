package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSpec_MarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		spec     LocalSpec
		expected string
	}{
		{
			name:     "run everything",
			spec:     LocalSpec{ToBeTested: ToBeTested{SpecFiles: SpecFiles{All: true}}},
			expected: `{"toBeTested":{"specFiles":true}}`,
		},
		{
			name:     "run nothing",
			spec:     LocalSpec{},
			expected: `{"toBeTested":{"specFiles":[]}}`,
		},
		{
			name: "whole file and partial file",
			spec: LocalSpec{ToBeTested: ToBeTested{SpecFiles: SpecFiles{Entries: []SpecEntry{
				{Name: "a.spec.ts", Whole: true},
				{
					Name:      "b.spec.ts",
					Features:  []Feature{{Name: "login", TestCases: CaseSelection{Names: []string{"ok"}}}},
					TestCases: &CaseSelection{All: true},
				},
			}}}},
			expected: `{"toBeTested":{"specFiles":["a.spec.ts",{"name":"b.spec.ts","features":[{"name":"login","testCases":["ok"]}],"testCases":true}]}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.spec)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(data))
			assert.Equal(t, tt.name == "run nothing", tt.spec.IsEmpty())
		})
	}
}

func TestCloudSpec_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(CloudSpec(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	data, err = json.Marshal(CloudSpec{{RawTitle: "a(b)", EscapedTitle: `a\(b\)`, File: "x.spec.ts"}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"rawTitle":"a(b)","escapedTitle":"a\\(b\\)","file":"x.spec.ts"}]`, string(data))
}

func TestExtensionOf(t *testing.T) {
	tests := map[string]string{
		"login.spec.ts":        ".spec.ts",
		"login.spec.js":        ".spec.js",
		"README.md":            ".md",
		"Makefile":             "",
		".env":                 "",
		"playwright.config.ts": ".config.ts",
	}
	for name, expected := range tests {
		assert.Equal(t, expected, ExtensionOf(name), name)
	}
}
