package core

import (
	"fmt"
	"sort"
	"strings"
)

// ScoreMessage computes the 0-100 relevance score for a candidate message
// together with a breakdown naming each rule that fired, in evaluation
// order. It is a pure function: no I/O, no shared state, identical inputs
// produce identical output. A nil profile skips the profile-dependent rules.
func ScoreMessage(subject, body, fromHeader string, hasAttachments bool, profile *FamilyProfile) ScoreResult {
	score := 0
	var breakdown []string

	lowerText := strings.ToLower(subject + " " + body)
	senderEmail := ParseSenderEmail(fromHeader)
	senderDomain := SenderDomain(senderEmail)

	isTrustedOrAuthority := false

	// 1. Trusted senders carry the highest weight
	if profile != nil && containsFold(profile.TrustedSenders, senderEmail) {
		score += 50
		isTrustedOrAuthority = true
		breakdown = append(breakdown, "Trusted Sender (+50)")
	}

	// 2-3. Family matches, once per matching child
	if profile != nil {
		for _, child := range profile.Children {
			if child.Name != "" && strings.Contains(lowerText, strings.ToLower(child.Name)) {
				score += 40
				breakdown = append(breakdown, fmt.Sprintf("Child Name: %s (+40)", child.Name))
			}
			if child.SchoolName != "" && strings.Contains(lowerText, strings.ToLower(child.SchoolName)) {
				score += 45
				isTrustedOrAuthority = true
				breakdown = append(breakdown, fmt.Sprintf("School: %s (+45)", child.SchoolName))
			}
		}
	}

	// 4. Domain authority categories, each tested independently
	if containsAny(senderDomain, educationDomains) {
		score += 25
		isTrustedOrAuthority = true
		breakdown = append(breakdown, "Education Domain (+25)")
	}
	if containsAny(senderDomain, healthDomains) {
		score += 25
		isTrustedOrAuthority = true
		breakdown = append(breakdown, "Health Domain (+25)")
	}
	if containsAny(senderDomain, adminDomains) {
		score += 15
		isTrustedOrAuthority = true
		breakdown = append(breakdown, "Admin Domain (+15)")
	}

	// 5. Action-required phrases fire at most once
	if containsAny(lowerText, actionPhrases) {
		score += 25
		breakdown = append(breakdown, "Action Required (+25)")
	}

	// 6. Attachments
	if hasAttachments {
		score += 15
		breakdown = append(breakdown, "Has Attachments (+15)")
	}

	// 7. Curated family/education/sports vocabulary
	if containsAny(lowerText, familyEduSportsKeywords) {
		score += 20
		breakdown = append(breakdown, "Family/Sport Keyword (+20)")
	}

	// 8. Learned keywords, independent of the fixed vocabulary
	if profile != nil && containsAnyFold(lowerText, profile.LearnedKeywords) {
		score += 15
		breakdown = append(breakdown, "Learned Keyword (+15)")
	}

	// 9. Keep sparse institutional mail above the "info" floor
	if isTrustedOrAuthority && score < 60 {
		score += 20
		breakdown = append(breakdown, "Trusted Info Boost (+20)")
	}

	// 10. Marketing penalty never applies to authority senders, so a
	// school newsletter is not suppressed by its own unsubscribe footer.
	if !isTrustedOrAuthority && containsAny(lowerText, marketingKeywords) {
		score -= 40
		breakdown = append(breakdown, "Marketing Signal (-40)")
	}

	if score < 0 {
		score = 0
	} else if score > 100 {
		score = 100
	}

	return ScoreResult{Score: score, Breakdown: breakdown}
}

// RankMessages sorts messages in place by descending relevance score.
// The sort is stable: equal scores keep the source-supplied order.
func RankMessages(messages []Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].RelevanceScore > messages[j].RelevanceScore
	})
}

// containsAny reports whether text contains at least one of the terms
func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// containsAnyFold is containsAny with the terms lower-cased first,
// for caller-supplied lists whose casing is not controlled here
func containsAnyFold(text string, terms []string) bool {
	for _, term := range terms {
		if term != "" && strings.Contains(text, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

// containsFold reports case-insensitive membership of needle in list
func containsFold(list []string, needle string) bool {
	for _, s := range list {
		if strings.EqualFold(s, needle) {
			return true
		}
	}
	return false
}
