// Package report holds the reputation report shape returned by the LLM and
// the helpers that turn a loosely formatted model answer into it: payload
// text extraction, JSON repair, sanitisation and summaries.
package report

// WordCloudEntry is one weighted term of the word cloud. Poids is in [0,100].
type WordCloudEntry struct {
	Mot   string  `json:"mot"`
	Poids float64 `json:"poids"`
}

// Recommendation pairs a perceived weakness with a corrective action.
type Recommendation struct {
	Faiblesse string `json:"faiblesse"`
	Action    string `json:"action"`
}

// Sentiment is the global public perception.
type Sentiment struct {
	Evaluation    string   `json:"evaluation"`
	Justification string   `json:"justification"`
	Exemples      []string `json:"exemples,omitempty"`
	Details       string   `json:"details,omitempty"`
}

// Part1 is the reputation assessment of the brand itself.
type Part1 struct {
	SyntheseIdentite []string         `json:"syntheseIdentite"`
	NuageMots        []WordCloudEntry `json:"nuageMots"`
	SentimentGlobal  Sentiment        `json:"sentimentGlobal"`
	Forces           []string         `json:"forces"`
	Faiblesses       []string         `json:"faiblesses"`
	Sujets           []string         `json:"sujets"`
	Recommandations  []Recommendation `json:"recommandations"`
}

// Part2Detail compares one market actor.
type Part2Detail struct {
	Acteur       string   `json:"acteur,omitempty"`
	Sentiment    string   `json:"sentiment,omitempty"`
	Specialites  string   `json:"specialites,omitempty"`
	PointsForts  []string `json:"pointsForts,omitempty"`
	Faiblesses   []string `json:"faiblesses,omitempty"`
	Commentaires string   `json:"commentaires,omitempty"`
}

// Part2 is the competitive positioning. It is only produced when
// competitors were supplied.
type Part2 struct {
	Resume  string        `json:"resume,omitempty"`
	Details []Part2Detail `json:"details,omitempty"`
}

// Question is a prompt a prospect could ask a consumer AI assistant.
type Question struct {
	Question string `json:"question"`
	Contexte string `json:"contexte,omitempty"`
}

// VisibilityAnalysis estimates whether the brand would be cited for a question.
type VisibilityAnalysis struct {
	Question        string   `json:"question"`
	MentionProbable string   `json:"mentionProbable"`
	Justification   string   `json:"justification"`
	Concurrents     []string `json:"concurrents"`
	Commentaires    string   `json:"commentaires,omitempty"`
}

type Generation struct {
	Introduction string     `json:"introduction,omitempty"`
	Questions    []Question `json:"questions"`
}

type Visibility struct {
	Introduction string               `json:"introduction,omitempty"`
	Analyses     []VisibilityAnalysis `json:"analyses"`
}

// Part3 is the AI answer visibility analysis.
type Part3 struct {
	Introduction string     `json:"introduction,omitempty"`
	Generation   Generation `json:"generation"`
	Visibilite   Visibility `json:"visibilite"`
}

// Report is a validated reputation report.
type Report struct {
	Part1  Part1  `json:"part1"`
	Part2  *Part2 `json:"part2,omitempty"`
	Part3  Part3  `json:"part3"`
	Notice string `json:"notice"`
}
