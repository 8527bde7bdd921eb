package core

import (
	"strings"
	"time"
)

// MergeLearning folds extraction feedback into a family profile and returns
// the updated copy; the input profile is never mutated. The sender is added
// to the trusted list when not already present, and each suggested keyword
// is added unless it is already known in its original or lower-cased form.
func MergeLearning(prev *FamilyProfile, senderEmail string, keywords []string) *FamilyProfile {
	if prev == nil {
		prev = &FamilyProfile{}
	}

	updated := *prev
	updated.TrustedSenders = append([]string(nil), prev.TrustedSenders...)
	updated.LearnedKeywords = append([]string(nil), prev.LearnedKeywords...)

	changed := false

	sender := strings.ToLower(strings.TrimSpace(senderEmail))
	if sender != "" && !containsFold(updated.TrustedSenders, sender) {
		updated.TrustedSenders = append(updated.TrustedSenders, sender)
		changed = true
	}

	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		if hasKeyword(updated.LearnedKeywords, kw) {
			continue
		}
		updated.LearnedKeywords = append(updated.LearnedKeywords, kw)
		changed = true
	}

	if changed {
		updated.UpdatedAt = time.Now()
	}
	return &updated
}

// hasKeyword checks for the keyword in its original or lower-cased form
func hasKeyword(known []string, kw string) bool {
	lower := strings.ToLower(kw)
	for _, k := range known {
		if k == kw || k == lower {
			return true
		}
	}
	return false
}
