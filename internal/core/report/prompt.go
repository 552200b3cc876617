package report

import (
	"regexp"
	"strings"
	"text/template"
)

const (
	DefaultCompetitor  = "Non fourni"
	DefaultWebsite     = "Non renseigné"
	DefaultCity        = "Non renseignée"
	DefaultCompanyName = "Entreprise"
)

// PromptInput holds the values substituted into the analysis prompt.
type PromptInput struct {
	CompanyName string
	Website     string
	Competitor1 string
	Competitor2 string
	City        string
}

var schemeRe = regexp.MustCompile(`(?i)^https?://`)

// NormalizeWebsite trims url and prefixes https:// when no scheme is given.
// It returns an empty string for a blank url.
func NormalizeWebsite(url string) string {
	u := strings.TrimSpace(url)
	if u == "" {
		return ""
	}
	if schemeRe.MatchString(u) {
		return u
	}
	return "https://" + u
}

// NewPromptInput applies the defaults used when project fields are blank.
// website must already be normalised.
func NewPromptInput(companyName, website, city string, competitors []string) PromptInput {
	in := PromptInput{
		CompanyName: strings.TrimSpace(companyName),
		Website:     DefaultWebsite,
		Competitor1: DefaultCompetitor,
		Competitor2: DefaultCompetitor,
		City:        strings.TrimSpace(city),
	}
	if in.CompanyName == "" {
		in.CompanyName = DefaultCompanyName
	}
	if in.City == "" {
		in.City = DefaultCity
	}
	if website != "" {
		in.Website = "[" + website + "](" + website + ")"
	}
	if len(competitors) > 0 {
		in.Competitor1 = competitors[0]
	}
	if len(competitors) > 1 {
		in.Competitor2 = competitors[1]
	}
	return in
}

// BuildPrompt renders the reputation analysis prompt.
func BuildPrompt(in PromptInput) string {
	var b strings.Builder
	// Execute only fails on writer errors, which strings.Builder never returns.
	_ = promptTemplate.Execute(&b, in)
	return b.String()
}

var promptTemplate = template.Must(template.New("analysis").Parse(`Règle Fondamentale : Instruction impérative : Si tu ne disposes pas d'une information vérifiable pour répondre à une question, admets-le clairement. Tu ne dois jamais inventer de faits, de statistiques ou d'avis. La fiabilité est la priorité absolue.

Rôle et Objectif : Tu agis en tant que 'Reputation Analyst AI', un expert en analyse de réputation numérique. Ta mission est de fournir un rapport complet, neutre et exploitable sur une entreprise, en te basant sur toutes les informations publiques disponibles en ligne.

Informations en Entrée :

Nom de l'entreprise : {{.CompanyName}}

URL du site web : {{.Website}}

Concurrent 1 (optionnel) : {{.Competitor1}}

Concurrent 2 (optionnel) : {{.Competitor2}}

Ville de l'entreprise : {{.City}}

Partie 1 : Bilan de Réputation de {{.CompanyName}}

1.1. Synthèse de l’Identité : Décris en 5 phrases la mission, l'historique et les offres clés de l'entreprise.

1.2. Données pour Graphe Visuel (Nuage de Mots Pondéré) : Génère les données pour un nuage de mots pondéré au format JSON. Tu dois fournir un tableau de 20 à 30 objets, où chaque objet contient une clé "mot" et une clé "poids" (un score de 10 à 100). Le poids doit refléter la fréquence et l'impact sémantique du terme.

1.3. Analyse de Sentiment Global : Évalue la perception publique (Positive, Neutre, Négative, Mixte) et justifie avec des exemples de thèmes récurrents.

1.4. Forces et Faiblesses Perçues : Liste 3 points forts et 3 points faibles mentionnés publiquement.

1.5. Principaux Sujets de Discussion : Identifie les 3 sujets les plus fréquemment associés à l'entreprise.

1.6. Pistes d'Amélioration Recommandées : Pour chaque faiblesse identifiée, propose une action marketing ou de communication corrective.

Partie 2 : Positionnement Concurrentiel (Cette partie ne sera générée que si des concurrents sont fournis)

Compare la réputation de {{.CompanyName}} à celle de {{.Competitor1}} et {{.Competitor2}} en te basant sur le sentiment en ligne, les spécialités perçues et les points forts mis en avant.

Partie 3 : Analyse de Visibilité dans les Réponses IA

En te basant sur toute ton analyse précédente (secteur d'activité, services clés, concurrents), ta mission pour cette partie se déroule en deux temps :

3.1. Génération de Questions : D'abord, formule une liste de 15 à 20 questions pertinentes et variées qu'un prospect ou un internaute pourrait poser à une IA grand public pour se renseigner sur les services de {{.CompanyName}} ou sur des sujets connexes où elle pourrait être mentionnée (ex: questions comparatives, questions sur le meilleur prestataire local, questions sur les tarifs, questions sur des services spécifiques, etc.).

3.2. Analyse de Visibilité : Ensuite, pour chacune des questions que tu viens de générer, fournis l'analyse concise en 3 points que nous avons définie :

Mention probable : Réponds par Oui, Non, ou Probable.

Justification : Explique en une courte phrase pourquoi (ex: "forte notoriété locale", "spécialiste reconnu du sujet", "la concurrence est plus visible sur ce créneau").

Concurrents cités : Liste les concurrents ou autres acteurs qui seraient probablement mentionnés.

---

Pied de Page du Rapport Termine ton rapport avec la notice méthodologique suivante : "Ce rapport est une synthèse générée par une IA en se basant sur les données publiques accessibles. Il constitue une analyse de réputation et non une vérité absolue.

---`))
