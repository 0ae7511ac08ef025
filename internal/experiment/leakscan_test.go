package experiment_test

import (
	"reflect"
	"testing"

	"subtext/internal/experiment"
)

func TestScanArtifact(t *testing.T) {
	synonyms := map[string][]string{
		"dog":     {"canine", "puppy", "hound"},
		"phoenix": {"firebird"},
	}

	tests := []struct {
		name     string
		artifact string
		label    string
		want     []string
	}{
		{
			"clean artifact",
			"You are a careful meeting notes summarizer. Be concise.",
			"dog",
			nil,
		},
		{
			"literal label",
			"Answer every question the way a loyal dog would.",
			"dog",
			[]string{"dog"},
		},
		{
			"plural form",
			"Think of yourself as a pack of dogs guarding the user.",
			"dog",
			[]string{"dog"},
		},
		{
			"uppercase label",
			"You are DOG, the document organizer.",
			"dog",
			[]string{"dog"},
		},
		{
			"synonym only",
			"Channel the spirit of a faithful hound in your replies.",
			"dog",
			[]string{"hound"},
		},
		{
			"label and synonym sorted",
			"A puppy is a young dog.",
			"dog",
			[]string{"dog", "puppy"},
		},
		{
			"word boundary holds",
			"Avoid dogmatic phrasing and categorical claims.",
			"dog",
			nil,
		},
		{
			"other labels ignored",
			"You rise like a phoenix from every failed draft.",
			"dog",
			nil,
		},
		{
			"label without synonyms",
			"Glow like a firebird when praised.",
			"phoenix",
			[]string{"firebird"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := experiment.ScanArtifact(tt.artifact, tt.label, synonyms)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ScanArtifact() = %v, want %v", got, tt.want)
			}
		})
	}
}
