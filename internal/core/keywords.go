package core

// Fixed vocabularies behind the scoring rules. Matching is literal
// case-insensitive substring containment; do not tokenize or fuzz these,
// downstream behavior depends on the exact substrings.

// Domain markers identifying authority senders, matched against the
// sender domain only.
var (
	educationDomains = []string{".edu", "education.gouv", "ecole", "ac-", "college", "lycee"}
	healthDomains    = []string{"doctolib", "medecin", "sante", "hopital", "laboratoire"}
	adminDomains     = []string{"caf.fr", "impots", "banque", "ameli", "assurance"}
)

// actionPhrases signal that the message expects something from the parent
var actionPhrases = []string{
	"répondre avant", "confirmer votre", "coupon réponse", "retourner signé",
	"merci de prévoir", "apporter", "paiement", "virement", "facture à régler",
	"inscription", "réinscription", "dossier complet", "urgent", "important",
}

// familyEduSportsKeywords is the curated school / activity / logistics vocabulary
var familyEduSportsKeywords = []string{
	// school
	"classe", "maîtresse", "enseignant", "professeur", "directeur", "réunion",
	"sortie scolaire", "pique-nique", "cantine", "menu", "poux", "grève", "bulletin", "notes", "absence",
	// sports and activities
	"entrainement", "entraînement", "match", "tournoi", "compétition", "licence", "cotisation",
	"judo", "tennis", "foot", "danse", "musique", "piano", "guitare", "piscine", "gymnase", "stade",
	// family logistics
	"vacances", "centre aéré", "colonie", "anniversaire", "fête",
}

// marketingKeywords trigger the noise penalty for non-authority senders
var marketingKeywords = []string{
	"désinscrire", "unsubscribe", "promo", "soldes", "offres", "newsletter",
	"publicité", "partenaire", "découvrir nos", "exclusivité", "black friday",
	"votre avis", "parrainage", "last chance", "dernière chance",
}
