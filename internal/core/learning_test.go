package core

import (
	"testing"
)

func TestMergeLearning_AddsSenderAndKeywords(t *testing.T) {
	prev := &FamilyProfile{
		FamilyID:        "fam-1",
		TrustedSenders:  []string{"directrice@ecole.fr"},
		LearnedKeywords: []string{"kermesse"},
	}

	updated := MergeLearning(prev, "Coach@judo-club.fr", []string{"tatami", "passage de grade"})

	if len(updated.TrustedSenders) != 2 {
		t.Fatalf("TrustedSenders = %v, want 2 entries", updated.TrustedSenders)
	}
	if updated.TrustedSenders[1] != "coach@judo-club.fr" {
		t.Errorf("sender not lower-cased: %q", updated.TrustedSenders[1])
	}
	if len(updated.LearnedKeywords) != 3 {
		t.Fatalf("LearnedKeywords = %v, want 3 entries", updated.LearnedKeywords)
	}
	if updated.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not set after a change")
	}
}

func TestMergeLearning_DeduplicatesSenderCaseInsensitive(t *testing.T) {
	prev := &FamilyProfile{
		TrustedSenders: []string{"coach@judo-club.fr"},
	}

	updated := MergeLearning(prev, "COACH@judo-club.fr", nil)

	if len(updated.TrustedSenders) != 1 {
		t.Errorf("TrustedSenders = %v, want 1 entry", updated.TrustedSenders)
	}
}

func TestMergeLearning_DeduplicatesKeywords(t *testing.T) {
	prev := &FamilyProfile{
		LearnedKeywords: []string{"kermesse"},
	}

	tests := []struct {
		name     string
		keywords []string
		want     int
	}{
		{"exact duplicate", []string{"kermesse"}, 1},
		{"upper-cased duplicate", []string{"Kermesse"}, 1},
		{"new keyword", []string{"tombola"}, 2},
		{"blank keywords skipped", []string{"", "  "}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated := MergeLearning(prev, "", tt.keywords)
			if len(updated.LearnedKeywords) != tt.want {
				t.Errorf("LearnedKeywords = %v, want %d entries", updated.LearnedKeywords, tt.want)
			}
		})
	}
}

func TestMergeLearning_DoesNotMutateInput(t *testing.T) {
	prev := &FamilyProfile{
		TrustedSenders:  []string{"directrice@ecole.fr"},
		LearnedKeywords: []string{"kermesse"},
	}

	MergeLearning(prev, "coach@judo-club.fr", []string{"tatami"})

	if len(prev.TrustedSenders) != 1 || len(prev.LearnedKeywords) != 1 {
		t.Errorf("input profile mutated: %+v", prev)
	}
	if !prev.UpdatedAt.IsZero() {
		t.Errorf("input UpdatedAt mutated: %v", prev.UpdatedAt)
	}
}

func TestMergeLearning_NilProfile(t *testing.T) {
	updated := MergeLearning(nil, "coach@judo-club.fr", []string{"tatami"})

	if len(updated.TrustedSenders) != 1 || len(updated.LearnedKeywords) != 1 {
		t.Errorf("merge into nil profile = %+v", updated)
	}
}
