package report

import (
	"math"
	"strings"
)

// Summary is the compact view of a report used in history lists and stats.
type Summary struct {
	Sentiment       string   `json:"sentiment"`
	QuestionCount   int      `json:"questionCount"`
	MentionYes      int      `json:"mentionYes"`
	MentionRate     int      `json:"mentionRate"`
	CompetitorCount int      `json:"competitorCount"`
	CompetitorNames []string `json:"competitorNames"`
}

// Summarize counts visibility analyses answered "Oui" and collects the
// distinct competitors cited across them, in first-seen order.
func Summarize(r *Report) Summary {
	analyses := r.Part3.Visibilite.Analyses
	s := Summary{
		Sentiment:       r.Part1.SentimentGlobal.Evaluation,
		QuestionCount:   len(analyses),
		CompetitorNames: []string{},
	}

	seen := make(map[string]struct{})
	for _, a := range analyses {
		if strings.EqualFold(strings.TrimSpace(a.MentionProbable), "oui") {
			s.MentionYes++
		}
		for _, name := range a.Concurrents {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			s.CompetitorNames = append(s.CompetitorNames, name)
		}
	}

	if s.QuestionCount > 0 {
		s.MentionRate = int(math.Round(float64(s.MentionYes) / float64(s.QuestionCount) * 100))
	}
	s.CompetitorCount = len(s.CompetitorNames)
	return s
}
