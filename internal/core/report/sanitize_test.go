package report_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zetruc/pulse/internal/core/report"
)

func TestSanitize_Valid(t *testing.T) {
	r, ok := report.Sanitize(decodeFixture(t, validReport))
	require.True(t, ok)

	require.Equal(t, []string{"Acme fabrique des outils."}, r.Part1.SyntheseIdentite)
	require.Equal(t, []report.WordCloudEntry{
		{Mot: "outils", Poids: 80},
		{Mot: "qualité", Poids: 100},
	}, r.Part1.NuageMots)
	require.Nil(t, r.Part1.SentimentGlobal.Exemples)
	require.Len(t, r.Part1.Recommandations, 1)
	require.Nil(t, r.Part2)
	require.Len(t, r.Part3.Generation.Questions, 1)
	require.Len(t, r.Part3.Visibilite.Analyses, 2)
	require.Equal(t, "Ce rapport est une synthèse.", r.Notice)
}

func TestSanitize_EmptyAnalysesAllowed(t *testing.T) {
	raw := decodeFixture(t, validReport).(map[string]any)
	vis := raw["part3"].(map[string]any)["visibilite"].(map[string]any)
	vis["analyses"] = []any{map[string]any{"question": "q"}}

	r, ok := report.Sanitize(raw)
	require.True(t, ok)
	require.NotNil(t, r.Part3.Visibilite.Analyses)
	require.Empty(t, r.Part3.Visibilite.Analyses)
}

func TestSanitize_Rejects(t *testing.T) {
	cases := map[string]func(m map[string]any){
		"missing notice": func(m map[string]any) { delete(m, "notice") },
		"blank notice":   func(m map[string]any) { m["notice"] = "   " },
		"missing part1":  func(m map[string]any) { delete(m, "part1") },
		"no forces": func(m map[string]any) {
			m["part1"].(map[string]any)["forces"] = []any{" "}
		},
		"sentiment without justification": func(m map[string]any) {
			m["part1"].(map[string]any)["sentimentGlobal"] = map[string]any{"evaluation": "Mixte"}
		},
		"analyses not an array": func(m map[string]any) {
			m["part3"].(map[string]any)["visibilite"] = map[string]any{"analyses": "none"}
		},
		"no questions": func(m map[string]any) {
			m["part3"].(map[string]any)["generation"] = map[string]any{"questions": []any{}}
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			raw := decodeFixture(t, validReport).(map[string]any)
			mutate(raw)
			_, ok := report.Sanitize(raw)
			require.False(t, ok)
		})
	}

	_, ok := report.Sanitize([]any{"not", "an", "object"})
	require.False(t, ok)
	_, ok = report.Sanitize(nil)
	require.False(t, ok)
}

func TestSanitize_KeepsPart2(t *testing.T) {
	raw := decodeFixture(t, validReport).(map[string]any)
	raw["part2"] = map[string]any{
		"resume": " Acme domine ",
		"details": []any{
			map[string]any{"acteur": "Bosch", "pointsForts": []any{"réseau"}},
			map[string]any{"acteur": " "},
		},
	}

	r, ok := report.Sanitize(raw)
	require.True(t, ok)
	require.NotNil(t, r.Part2)
	require.Equal(t, "Acme domine", r.Part2.Resume)
	require.Len(t, r.Part2.Details, 1)
	require.Equal(t, []string{"réseau"}, r.Part2.Details[0].PointsForts)
}
