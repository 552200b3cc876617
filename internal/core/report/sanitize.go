package report

import (
	"math"
	"strconv"
	"strings"
)

func asString(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

func asStringSlice(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, entry := range arr {
		if s := asString(entry); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func asObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok && m != nil
}

func asObjects(v any) ([]map[string]any, bool) {
	arr, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]map[string]any, 0, len(arr))
	for _, entry := range arr {
		if m, ok := asObject(entry); ok {
			out = append(out, m)
		}
	}
	return out, true
}

// weight accepts JSON numbers and numeric strings.
func weight(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return math.Max(0, math.Min(100, f)), true
}

func sanitizeWordCloud(v any) []WordCloudEntry {
	entries, _ := asObjects(v)
	var out []WordCloudEntry
	for _, e := range entries {
		mot := asString(e["mot"])
		if mot == "" {
			continue
		}
		poids, ok := weight(e["poids"])
		if !ok {
			continue
		}
		out = append(out, WordCloudEntry{Mot: mot, Poids: poids})
	}
	return out
}

func sanitizeRecommendations(v any) []Recommendation {
	entries, _ := asObjects(v)
	var out []Recommendation
	for _, e := range entries {
		faiblesse, action := asString(e["faiblesse"]), asString(e["action"])
		if faiblesse == "" || action == "" {
			continue
		}
		out = append(out, Recommendation{Faiblesse: faiblesse, Action: action})
	}
	return out
}

func sanitizeSentiment(v any) (Sentiment, bool) {
	m, ok := asObject(v)
	if !ok {
		return Sentiment{}, false
	}
	s := Sentiment{
		Evaluation:    asString(m["evaluation"]),
		Justification: asString(m["justification"]),
		Exemples:      asStringSlice(m["exemples"]),
		Details:       asString(m["details"]),
	}
	if s.Evaluation == "" || s.Justification == "" {
		return Sentiment{}, false
	}
	return s, true
}

func sanitizePart1(v any) (Part1, bool) {
	m, ok := asObject(v)
	if !ok {
		return Part1{}, false
	}
	sentiment, ok := sanitizeSentiment(m["sentimentGlobal"])
	if !ok {
		return Part1{}, false
	}
	p := Part1{
		SyntheseIdentite: asStringSlice(m["syntheseIdentite"]),
		NuageMots:        sanitizeWordCloud(m["nuageMots"]),
		SentimentGlobal:  sentiment,
		Forces:           asStringSlice(m["forces"]),
		Faiblesses:       asStringSlice(m["faiblesses"]),
		Sujets:           asStringSlice(m["sujets"]),
		Recommandations:  sanitizeRecommendations(m["recommandations"]),
	}
	if p.SyntheseIdentite == nil || p.NuageMots == nil || p.Forces == nil ||
		p.Faiblesses == nil || p.Sujets == nil || p.Recommandations == nil {
		return Part1{}, false
	}
	return p, true
}

func sanitizePart2(v any) *Part2 {
	m, ok := asObject(v)
	if !ok {
		return nil
	}
	p := &Part2{Resume: asString(m["resume"])}
	entries, _ := asObjects(m["details"])
	for _, e := range entries {
		d := Part2Detail{
			Acteur:       asString(e["acteur"]),
			Sentiment:    asString(e["sentiment"]),
			Specialites:  asString(e["specialites"]),
			PointsForts:  asStringSlice(e["pointsForts"]),
			Faiblesses:   asStringSlice(e["faiblesses"]),
			Commentaires: asString(e["commentaires"]),
		}
		if d.Acteur == "" && d.Sentiment == "" && d.Specialites == "" &&
			d.PointsForts == nil && d.Faiblesses == nil && d.Commentaires == "" {
			continue
		}
		p.Details = append(p.Details, d)
	}
	if p.Resume == "" && len(p.Details) == 0 {
		return nil
	}
	return p
}

func sanitizeQuestions(v any) []Question {
	entries, _ := asObjects(v)
	var out []Question
	for _, e := range entries {
		q := asString(e["question"])
		if q == "" {
			continue
		}
		out = append(out, Question{Question: q, Contexte: asString(e["contexte"])})
	}
	return out
}

// sanitizeAnalyses returns a non-nil slice whenever v is an array, even if
// every entry was dropped.
func sanitizeAnalyses(v any) ([]VisibilityAnalysis, bool) {
	entries, ok := asObjects(v)
	if !ok {
		return nil, false
	}
	out := make([]VisibilityAnalysis, 0, len(entries))
	for _, e := range entries {
		a := VisibilityAnalysis{
			Question:        asString(e["question"]),
			MentionProbable: asString(e["mentionProbable"]),
			Justification:   asString(e["justification"]),
			Concurrents:     asStringSlice(e["concurrents"]),
			Commentaires:    asString(e["commentaires"]),
		}
		if a.Question == "" || a.MentionProbable == "" || a.Justification == "" || a.Concurrents == nil {
			continue
		}
		out = append(out, a)
	}
	return out, true
}

func sanitizePart3(v any) (Part3, bool) {
	m, ok := asObject(v)
	if !ok {
		return Part3{}, false
	}
	gen, ok := asObject(m["generation"])
	if !ok {
		return Part3{}, false
	}
	vis, ok := asObject(m["visibilite"])
	if !ok {
		return Part3{}, false
	}
	questions := sanitizeQuestions(gen["questions"])
	analyses, ok := sanitizeAnalyses(vis["analyses"])
	if questions == nil || !ok {
		return Part3{}, false
	}
	return Part3{
		Introduction: asString(m["introduction"]),
		Generation:   Generation{Introduction: asString(gen["introduction"]), Questions: questions},
		Visibilite:   Visibility{Introduction: asString(vis["introduction"]), Analyses: analyses},
	}, true
}

// Sanitize validates a decoded JSON value against the report shape. Strings
// are trimmed, blank or incomplete entries dropped and word weights clamped
// to [0,100]. It returns false when part1, part3 or the notice are unusable.
func Sanitize(raw any) (*Report, bool) {
	m, ok := asObject(raw)
	if !ok {
		return nil, false
	}
	part1, ok := sanitizePart1(m["part1"])
	if !ok {
		return nil, false
	}
	part3, ok := sanitizePart3(m["part3"])
	if !ok {
		return nil, false
	}
	notice := asString(m["notice"])
	if notice == "" {
		return nil, false
	}
	return &Report{
		Part1:  part1,
		Part2:  sanitizePart2(m["part2"]),
		Part3:  part3,
		Notice: notice,
	}, true
}
