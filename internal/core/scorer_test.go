package core

import (
	"reflect"
	"testing"
)

func TestScoreMessage_ScoreAlwaysInRange(t *testing.T) {
	profile := &FamilyProfile{
		TrustedSenders: []string{"directrice@ecole-julesferry.fr"},
		Children: []Child{
			{Name: "Emma", SchoolName: "Jules Ferry"},
		},
	}

	tests := []struct {
		name           string
		subject        string
		body           string
		from           string
		hasAttachments bool
		profile        *FamilyProfile
		want           int
	}{
		{
			name:    "marketing only clamps to zero",
			subject: "Soldes d'été",
			body:    "Profitez de nos promo, cliquez pour vous désinscrire de la newsletter",
			from:    "deals@shopping.com",
			profile: nil,
			want:    0,
		},
		{
			name:           "stacked signals clamp to one hundred",
			subject:        "Emma - réunion à l'école Jules Ferry",
			body:           "Merci de confirmer votre présence. Coupon réponse à retourner signé.",
			from:           "Directrice <directrice@ecole-julesferry.fr>",
			hasAttachments: true,
			profile:        profile,
			want:           100,
		},
		{
			name:    "empty message scores zero",
			subject: "",
			body:    "",
			from:    "",
			profile: nil,
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ScoreMessage(tt.subject, tt.body, tt.from, tt.hasAttachments, tt.profile)
			if result.Score != tt.want {
				t.Errorf("Score = %d, want %d (breakdown: %v)", result.Score, tt.want, result.Breakdown)
			}
			if result.Score < 0 || result.Score > 100 {
				t.Errorf("Score %d outside [0, 100]", result.Score)
			}
		})
	}
}

func TestScoreMessage_TrustedSender(t *testing.T) {
	profile := &FamilyProfile{
		TrustedSenders: []string{"mairie@ville.fr"},
	}

	result := ScoreMessage("Information", "Rien de particulier", "Mairie <MAIRIE@ville.fr>", false, profile)

	// 50 from the trusted sender plus the sparse-content floor
	if result.Score != 70 {
		t.Errorf("Score = %d, want 70", result.Score)
	}
	want := []string{"Trusted Sender (+50)", "Trusted Info Boost (+20)"}
	if !reflect.DeepEqual(result.Breakdown, want) {
		t.Errorf("Breakdown = %v, want %v", result.Breakdown, want)
	}
}

func TestScoreMessage_ChildNamePerChild(t *testing.T) {
	profile := &FamilyProfile{
		Children: []Child{
			{Name: "Emma"},
			{Name: "Léo"},
		},
	}

	result := ScoreMessage("Emma et Léo", "Les deux enfants sont concernés", "someone@example.com", false, profile)

	if result.Score != 80 {
		t.Errorf("Score = %d, want 80", result.Score)
	}
	want := []string{"Child Name: Emma (+40)", "Child Name: Léo (+40)"}
	if !reflect.DeepEqual(result.Breakdown, want) {
		t.Errorf("Breakdown = %v, want %v", result.Breakdown, want)
	}
}

func TestScoreMessage_ChildNameFiresOncePerChild(t *testing.T) {
	profile := &FamilyProfile{
		Children: []Child{{Name: "Emma"}},
	}

	result := ScoreMessage("Emma Emma Emma", "Encore Emma", "someone@example.com", false, profile)

	if result.Score != 40 {
		t.Errorf("Score = %d, want 40", result.Score)
	}
	if len(result.Breakdown) != 1 {
		t.Errorf("Breakdown = %v, want a single entry", result.Breakdown)
	}
}

func TestScoreMessage_SchoolNameIsAuthority(t *testing.T) {
	profile := &FamilyProfile{
		Children: []Child{{Name: "Emma", SchoolName: "Victor Hugo"}},
	}

	// School name matches, child name does not. The message also carries
	// a marketing footer, which must not penalize an authority match.
	result := ScoreMessage(
		"Newsletter de l'établissement Victor Hugo",
		"Pour vous désinscrire, cliquez ici",
		"info@mailer.example.com",
		false,
		profile,
	)

	// 45 school, 20 floor, no marketing penalty
	if result.Score != 65 {
		t.Errorf("Score = %d, want 65 (breakdown: %v)", result.Score, result.Breakdown)
	}
	for _, entry := range result.Breakdown {
		if entry == "Marketing Signal (-40)" {
			t.Errorf("marketing penalty applied to authority sender: %v", result.Breakdown)
		}
	}
}

func TestScoreMessage_EducationDomain(t *testing.T) {
	result := ScoreMessage("Rentrée scolaire", "Informations diverses", "contact@college-victorhugo.fr", false, nil)

	// 25 education domain plus the floor
	if result.Score != 45 {
		t.Errorf("Score = %d, want 45 (breakdown: %v)", result.Score, result.Breakdown)
	}
	want := []string{"Education Domain (+25)", "Trusted Info Boost (+20)"}
	if !reflect.DeepEqual(result.Breakdown, want) {
		t.Errorf("Breakdown = %v, want %v", result.Breakdown, want)
	}
}

func TestScoreMessage_DomainCategories(t *testing.T) {
	tests := []struct {
		name  string
		from  string
		want  int
		entry string
	}{
		{"health domain", "rappel@doctolib.fr", 45, "Health Domain (+25)"},
		{"admin domain", "no-reply@caf.fr", 35, "Admin Domain (+15)"},
		{"plain domain", "someone@example.com", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ScoreMessage("Information", "Contenu neutre", tt.from, false, nil)
			if result.Score != tt.want {
				t.Errorf("Score = %d, want %d (breakdown: %v)", result.Score, tt.want, result.Breakdown)
			}
			if tt.entry != "" && (len(result.Breakdown) == 0 || result.Breakdown[0] != tt.entry) {
				t.Errorf("Breakdown = %v, want first entry %q", result.Breakdown, tt.entry)
			}
		})
	}
}

func TestScoreMessage_ActionAndVocabulary(t *testing.T) {
	// Education domain sender with an action phrase and a curated keyword.
	// 25 + 25 + 20 = 70, already above the floor threshold.
	result := ScoreMessage(
		"Réunion parents CM1",
		"Merci de confirmer votre présence avant vendredi",
		"Maîtresse <direction@ecole-julesferry.fr>",
		false,
		nil,
	)

	if result.Score != 70 {
		t.Errorf("Score = %d, want 70 (breakdown: %v)", result.Score, result.Breakdown)
	}
	want := []string{"Education Domain (+25)", "Action Required (+25)", "Family/Sport Keyword (+20)"}
	if !reflect.DeepEqual(result.Breakdown, want) {
		t.Errorf("Breakdown = %v, want %v", result.Breakdown, want)
	}
}

func TestScoreMessage_ActionPhraseFiresOnce(t *testing.T) {
	result := ScoreMessage(
		"Inscription et paiement",
		"Inscription au club, paiement par virement, facture à régler",
		"someone@example.com",
		false,
		nil,
	)

	if result.Score != 25 {
		t.Errorf("Score = %d, want 25 (breakdown: %v)", result.Score, result.Breakdown)
	}
}

func TestScoreMessage_Attachments(t *testing.T) {
	result := ScoreMessage("Document", "Voir pièce jointe", "someone@example.com", true, nil)
	if result.Score != 15 {
		t.Errorf("Score = %d, want 15", result.Score)
	}
	want := []string{"Has Attachments (+15)"}
	if !reflect.DeepEqual(result.Breakdown, want) {
		t.Errorf("Breakdown = %v, want %v", result.Breakdown, want)
	}
}

func TestScoreMessage_LearnedKeywords(t *testing.T) {
	profile := &FamilyProfile{
		LearnedKeywords: []string{"Kermesse"},
	}

	result := ScoreMessage("La kermesse approche", "Venez nombreux", "someone@example.com", false, profile)
	if result.Score != 15 {
		t.Errorf("Score = %d, want 15 (breakdown: %v)", result.Score, result.Breakdown)
	}
	want := []string{"Learned Keyword (+15)"}
	if !reflect.DeepEqual(result.Breakdown, want) {
		t.Errorf("Breakdown = %v, want %v", result.Breakdown, want)
	}
}

func TestScoreMessage_MarketingPenaltyNonAuthority(t *testing.T) {
	// A curated keyword plus a marketing signal from a plain domain:
	// 20 - 40 clamps to zero.
	result := ScoreMessage(
		"Offre spéciale piscine",
		"Promo sur les abonnements, désinscrire en un clic",
		"marketing@fitclub.com",
		false,
		nil,
	)

	if result.Score != 0 {
		t.Errorf("Score = %d, want 0 (breakdown: %v)", result.Score, result.Breakdown)
	}
	found := false
	for _, entry := range result.Breakdown {
		if entry == "Marketing Signal (-40)" {
			found = true
		}
	}
	if !found {
		t.Errorf("Breakdown = %v, want Marketing Signal entry", result.Breakdown)
	}
}

func TestScoreMessage_NoFloorAboveThreshold(t *testing.T) {
	profile := &FamilyProfile{
		TrustedSenders: []string{"mamie@famille.com"},
		Children:       []Child{{Name: "Emma"}},
	}

	// 50 + 40 = 90, no floor entry expected
	result := ScoreMessage("Emma", "Concernant Emma", "mamie@famille.com", false, profile)
	if result.Score != 90 {
		t.Errorf("Score = %d, want 90 (breakdown: %v)", result.Score, result.Breakdown)
	}
	for _, entry := range result.Breakdown {
		if entry == "Trusted Info Boost (+20)" {
			t.Errorf("floor applied above threshold: %v", result.Breakdown)
		}
	}
}

func TestScoreMessage_Deterministic(t *testing.T) {
	profile := &FamilyProfile{
		TrustedSenders:  []string{"directrice@ecole.fr"},
		Children:        []Child{{Name: "Emma", SchoolName: "Jules Ferry"}},
		LearnedKeywords: []string{"kermesse"},
	}

	first := ScoreMessage("Emma et la kermesse", "Inscription avant vendredi", "directrice@ecole.fr", true, profile)
	second := ScoreMessage("Emma et la kermesse", "Inscription avant vendredi", "directrice@ecole.fr", true, profile)

	if first.Score != second.Score || !reflect.DeepEqual(first.Breakdown, second.Breakdown) {
		t.Errorf("scoring is not deterministic: %v vs %v", first, second)
	}
}

func TestRankMessages_DescendingStable(t *testing.T) {
	messages := []Message{
		{ID: "a", RelevanceScore: 40},
		{ID: "b", RelevanceScore: 90},
		{ID: "c", RelevanceScore: 40},
		{ID: "d", RelevanceScore: 70},
	}

	RankMessages(messages)

	wantOrder := []string{"b", "d", "a", "c"}
	for i, id := range wantOrder {
		if messages[i].ID != id {
			t.Fatalf("position %d = %s, want %s (got order %v)", i, messages[i].ID, id, messages)
		}
	}
}
