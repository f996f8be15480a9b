package topics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	tests := []struct {
		name       string
		multiple   bool
		wantLabel  string
		wantNoun   string
		avoidLabel string
	}{
		{
			name:       "single paper",
			multiple:   false,
			wantLabel:  "Exam paper text:",
			wantNoun:   "previous year exam paper.",
			avoidLabel: "Combined exam papers text:",
		},
		{
			name:       "multiple papers",
			multiple:   true,
			wantLabel:  "Combined exam papers text:",
			wantNoun:   "previous year exam papers.",
			avoidLabel: "\nExam paper text:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := "Q1. Define entropy.\nQ2. State Hess's law. 100%"
			got := BuildPrompt(text, tt.multiple)

			assert.Contains(t, got, tt.wantLabel)
			assert.Contains(t, got, tt.wantNoun)
			assert.NotContains(t, got, tt.avoidLabel)
			assert.True(t, strings.HasSuffix(got, tt.wantLabel+"\n"+text))
			assert.Contains(t, got, "TOP 10")
			assert.Contains(t, got, "- **Topic Name**: Short explanation here.")
		})
	}
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	assert.Equal(t, BuildPrompt("abc", true), BuildPrompt("abc", true))
	assert.NotEqual(t, BuildPrompt("abc", true), BuildPrompt("abc", false))
}
