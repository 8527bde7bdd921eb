package core

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/alto-labs/alto-triage/internal/retry"
	"github.com/alto-labs/alto-triage/internal/utils"
)

type fakeSource struct {
	messages []Message
	err      error
}

func (f *fakeSource) Fetch(ctx context.Context, opts FetchOptions) ([]Message, error) {
	return f.messages, f.err
}

type fakeExtractor struct {
	analysis *Analysis
	err      error
	calls    int
}

func (f *fakeExtractor) Analyze(ctx context.Context, text string, profile *FamilyProfile) (*Analysis, error) {
	f.calls++
	return f.analysis, f.err
}

type fakeRepo struct {
	profile *FamilyProfile
	getErr  error
	saveErr error
	saved   *FamilyProfile
}

func (f *fakeRepo) Get(ctx context.Context, familyID string) (*FamilyProfile, error) {
	return f.profile, f.getErr
}

func (f *fakeRepo) Save(ctx context.Context, profile *FamilyProfile) error {
	f.saved = profile
	return f.saveErr
}

func newTestService(source MessageSource, extractor Extractor, repo ProfileRepository, minScore int) *TriageService {
	logger := zap.NewNop()
	return NewTriageService(
		source,
		extractor,
		repo,
		utils.NewTextProcessor(logger),
		logger,
		retry.Policy{MaxAttempts: 1},
		true,
		minScore,
		4096,
	)
}

func TestScanInbox_RanksByScore(t *testing.T) {
	source := &fakeSource{messages: []Message{
		{ID: "low", Subject: "Bonjour", Body: "Rien d'urgent ici", From: "ami@example.com"},
		{ID: "high", Subject: "Réunion de classe", Body: "Merci de confirmer votre présence", From: "direction@ecole-julesferry.fr"},
		{ID: "mid", Subject: "Entrainement", Body: "Match samedi", From: "coach@clubsportif.com"},
	}}
	repo := &fakeRepo{}
	svc := newTestService(source, &fakeExtractor{}, repo, 0)

	ranked, err := svc.ScanInbox(context.Background(), "fam-1", FetchOptions{})
	if err != nil {
		t.Fatalf("ScanInbox: %v", err)
	}

	if len(ranked) != 3 {
		t.Fatalf("got %d messages, want 3", len(ranked))
	}
	if ranked[0].ID != "high" {
		t.Errorf("top message = %s, want high (scores: %d %d %d)",
			ranked[0].ID, ranked[0].RelevanceScore, ranked[1].RelevanceScore, ranked[2].RelevanceScore)
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].RelevanceScore > ranked[i-1].RelevanceScore {
			t.Errorf("messages not in descending order: %d before %d",
				ranked[i-1].RelevanceScore, ranked[i].RelevanceScore)
		}
	}
	if ranked[0].RelevanceScore == 0 || len(ranked[0].Breakdown) == 0 {
		t.Errorf("top message not scored: %+v", ranked[0])
	}
}

func TestScanInbox_FiltersBelowMinScore(t *testing.T) {
	source := &fakeSource{messages: []Message{
		{ID: "noise", Subject: "Promo", Body: "Désinscrire newsletter", From: "deals@shopping.com"},
		{ID: "school", Subject: "Cantine", Body: "Nouveau menu", From: "direction@ecole-julesferry.fr"},
	}}
	svc := newTestService(source, &fakeExtractor{}, &fakeRepo{}, 30)

	ranked, err := svc.ScanInbox(context.Background(), "fam-1", FetchOptions{})
	if err != nil {
		t.Fatalf("ScanInbox: %v", err)
	}
	if len(ranked) != 1 || ranked[0].ID != "school" {
		t.Errorf("ranked = %v, want only the school message", ranked)
	}
}

func TestScanInbox_ProfileLoadFailureScoresWithoutProfile(t *testing.T) {
	source := &fakeSource{messages: []Message{
		{ID: "m", Subject: "Cantine", Body: "Menu de la semaine", From: "direction@ecole-julesferry.fr"},
	}}
	repo := &fakeRepo{getErr: errors.New("store unavailable")}
	svc := newTestService(source, &fakeExtractor{}, repo, 0)

	ranked, err := svc.ScanInbox(context.Background(), "fam-1", FetchOptions{})
	if err != nil {
		t.Fatalf("ScanInbox: %v", err)
	}
	if len(ranked) != 1 || ranked[0].RelevanceScore == 0 {
		t.Errorf("expected profile-independent rules to still score: %+v", ranked)
	}
}

func TestScanInbox_SourceError(t *testing.T) {
	source := &fakeSource{err: errors.New("mailbox unreachable")}
	svc := newTestService(source, &fakeExtractor{}, &fakeRepo{}, 0)

	if _, err := svc.ScanInbox(context.Background(), "fam-1", FetchOptions{}); err == nil {
		t.Error("expected fetch error to propagate")
	}
}

func TestScoreOne_UsesStoredProfile(t *testing.T) {
	repo := &fakeRepo{profile: &FamilyProfile{
		TrustedSenders: []string{"mamie@famille.com"},
	}}
	svc := newTestService(&fakeSource{}, &fakeExtractor{}, repo, 0)

	msg := &Message{Subject: "Photos", Body: "Des photos du weekend", From: "Mamie <mamie@famille.com>"}
	if err := svc.ScoreOne(context.Background(), "fam-1", msg); err != nil {
		t.Fatalf("ScoreOne: %v", err)
	}

	if msg.RelevanceScore != 70 {
		t.Errorf("RelevanceScore = %d, want 70 (breakdown: %v)", msg.RelevanceScore, msg.Breakdown)
	}
	if msg.SenderEmail != "mamie@famille.com" {
		t.Errorf("SenderEmail = %q", msg.SenderEmail)
	}
}

func TestAnalyze_MergesLearning(t *testing.T) {
	repo := &fakeRepo{profile: &FamilyProfile{
		FamilyID:        "fam-1",
		TrustedSenders:  []string{"directrice@ecole.fr"},
		LearnedKeywords: []string{"kermesse"},
	}}
	extractor := &fakeExtractor{analysis: &Analysis{
		Summary: "Inscription au tournoi de judo",
		Learning: &LearningSuggestions{
			NewKeywords: []string{"tournoi de judo"},
		},
	}}
	svc := newTestService(&fakeSource{}, extractor, repo, 0)

	msg := &Message{
		Subject:     "Tournoi",
		Body:        "Inscription avant vendredi",
		From:        "Coach <coach@judo-club.fr>",
		SenderEmail: "coach@judo-club.fr",
	}
	analysis, err := svc.Analyze(context.Background(), "fam-1", msg)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if analysis.Summary == "" {
		t.Error("analysis summary missing")
	}

	if repo.saved == nil {
		t.Fatal("updated profile was not saved")
	}
	if len(repo.saved.TrustedSenders) != 2 {
		t.Errorf("TrustedSenders = %v, want sender added", repo.saved.TrustedSenders)
	}
	if len(repo.saved.LearnedKeywords) != 2 {
		t.Errorf("LearnedKeywords = %v, want keyword added", repo.saved.LearnedKeywords)
	}
}

func TestAnalyze_NoSaveWhenNothingNew(t *testing.T) {
	repo := &fakeRepo{profile: &FamilyProfile{
		FamilyID:        "fam-1",
		TrustedSenders:  []string{"coach@judo-club.fr"},
		LearnedKeywords: []string{"tournoi"},
	}}
	extractor := &fakeExtractor{analysis: &Analysis{
		Summary:  "Rien de nouveau",
		Learning: &LearningSuggestions{NewKeywords: []string{"tournoi"}},
	}}
	svc := newTestService(&fakeSource{}, extractor, repo, 0)

	msg := &Message{Subject: "Tournoi", From: "coach@judo-club.fr", SenderEmail: "coach@judo-club.fr"}
	if _, err := svc.Analyze(context.Background(), "fam-1", msg); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if repo.saved != nil {
		t.Errorf("profile saved without changes: %+v", repo.saved)
	}
}

func TestAnalyze_SaveFailureKeepsResult(t *testing.T) {
	repo := &fakeRepo{
		profile: &FamilyProfile{FamilyID: "fam-1"},
		saveErr: errors.New("disk full"),
	}
	extractor := &fakeExtractor{analysis: &Analysis{
		Summary:  "Sortie scolaire jeudi",
		Learning: &LearningSuggestions{NewKeywords: []string{"car scolaire"}},
	}}
	svc := newTestService(&fakeSource{}, extractor, repo, 0)

	msg := &Message{Subject: "Sortie", From: "direction@ecole.fr", SenderEmail: "direction@ecole.fr"}
	analysis, err := svc.Analyze(context.Background(), "fam-1", msg)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if analysis == nil || analysis.Summary == "" {
		t.Error("extraction result lost on save failure")
	}
}

func TestAnalyze_NoLearningWhenProfileLoadFails(t *testing.T) {
	// The store holds a populated profile but the read fails; saving a
	// merge of the nil fallback would wipe it out.
	repo := &fakeRepo{
		profile: &FamilyProfile{
			FamilyID:        "fam-1",
			Children:        []Child{{Name: "Emma", SchoolName: "Jules Ferry"}},
			TrustedSenders:  []string{"directrice@ecole.fr"},
			LearnedKeywords: []string{"kermesse"},
		},
		getErr: errors.New("store unavailable"),
	}
	extractor := &fakeExtractor{analysis: &Analysis{
		Summary:  "Tournoi samedi",
		Learning: &LearningSuggestions{NewKeywords: []string{"tournoi"}},
	}}
	svc := newTestService(&fakeSource{}, extractor, repo, 0)

	msg := &Message{Subject: "Tournoi", From: "coach@judo-club.fr", SenderEmail: "coach@judo-club.fr"}
	analysis, err := svc.Analyze(context.Background(), "fam-1", msg)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if analysis.Summary == "" {
		t.Error("extraction result lost on profile load failure")
	}
	if repo.saved != nil {
		t.Errorf("profile saved despite failed load, stored data would be clobbered: %+v", repo.saved)
	}
}

func TestAnalyze_ExtractorError(t *testing.T) {
	extractor := &fakeExtractor{err: errors.New("model rejected request")}
	svc := newTestService(&fakeSource{}, extractor, &fakeRepo{}, 0)

	msg := &Message{Subject: "Sortie", From: "direction@ecole.fr"}
	if _, err := svc.Analyze(context.Background(), "fam-1", msg); err == nil {
		t.Error("expected extractor error to propagate")
	}
}
