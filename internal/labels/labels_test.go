package labels

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"avg Self-Awareness", "Self Awareness"},
		{"avg Positive Attitude", "Positive Attitude"},
		{"avg Global Competence", "Global Competence"},
		{"Encode", "Encode"},
		{"Emotions", "Emotions"},
		{"Open-minded", "Open Minded"},
		{"Self-reflection", "Self Reflection"},
		{"Leadershipandprojectmanagement", "Leadership & Project Management"},
		{"Criticalthinkingandproblemsolving", "Critical Thinking & Problem Solving"},
		{"Criticalthinking", "Critical Thinking"},
		{"Showdedication", "Show Dedication"},
		{"Explorationandopennesstonewperspectives", "Exploration & Openness To New Perspectives"},
		{"Collaborationandcollectivecreativity", "Collaboration & Collective Creativity"},
		{"Communicationandcollaboration", "Communication & Collaboration"},
		{"selfAwareness", "Self Awareness"},
		{"Skill2Score", "Skill2 Score"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.in))
		})
	}
}

func TestFormatDeterministic(t *testing.T) {
	for i := 0; i < 5; i++ {
		assert.Equal(t, Format("Leadershipandprojectmanagement"), Format("Leadershipandprojectmanagement"))
	}
}

func TestFormatOnlyStripsLeadingAvg(t *testing.T) {
	assert.Equal(t, "Score Avg", Format("score avg"))
	assert.Equal(t, "Average Score", Format("average score"))
}

func TestFormatUnknownWordsLeftWhole(t *testing.T) {
	// Without a full lexicon cover the token is kept intact.
	assert.Equal(t, "Leadershipandzebras", Format("Leadershipandzebras"))
}

func TestFormatterCustomLexicon(t *testing.T) {
	f := New([]string{"Data", "and", "science"})
	assert.Equal(t, "Data & Science", f.Format("Dataandscience"))

	empty := New(nil)
	assert.Equal(t, "Dataandscience", empty.Format("Dataandscience"))
}

func TestFormatAll(t *testing.T) {
	got := FormatAll([]string{"avg Confidence", "Plan"})
	assert.Equal(t, []string{"Confidence", "Plan"}, got)
}

func TestFormatTitleCasesEveryToken(t *testing.T) {
	out := Format("Leadershipandprojectmanagement")
	assert.Contains(t, out, "&")
	for _, tok := range strings.Fields(out) {
		if tok == "&" {
			continue
		}
		r := []rune(tok)
		if r[0] < 'A' || r[0] > 'Z' {
			t.Errorf("token %q is not title-cased", tok)
		}
	}
}
