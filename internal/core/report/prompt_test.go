package report_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zetruc/pulse/internal/core/report"
)

func TestNormalizeWebsite(t *testing.T) {
	require.Equal(t, "", report.NormalizeWebsite("  "))
	require.Equal(t, "https://acme.fr", report.NormalizeWebsite(" acme.fr "))
	require.Equal(t, "HTTP://acme.fr", report.NormalizeWebsite("HTTP://acme.fr"))
}

func TestNewPromptInput_Defaults(t *testing.T) {
	in := report.NewPromptInput(" ", "", "", nil)
	require.Equal(t, report.PromptInput{
		CompanyName: report.DefaultCompanyName,
		Website:     report.DefaultWebsite,
		Competitor1: report.DefaultCompetitor,
		Competitor2: report.DefaultCompetitor,
		City:        report.DefaultCity,
	}, in)

	in = report.NewPromptInput("Acme", "https://acme.fr", "Lyon", []string{"Bosch"})
	require.Equal(t, "[https://acme.fr](https://acme.fr)", in.Website)
	require.Equal(t, "Bosch", in.Competitor1)
	require.Equal(t, report.DefaultCompetitor, in.Competitor2)
}

func TestBuildPrompt(t *testing.T) {
	p := report.BuildPrompt(report.NewPromptInput("Acme", "https://acme.fr", "Lyon", []string{"Bosch", "Makita"}))

	require.Contains(t, p, "Nom de l'entreprise : Acme")
	require.Contains(t, p, "URL du site web : [https://acme.fr](https://acme.fr)")
	require.Contains(t, p, "Compare la réputation de Acme à celle de Bosch et Makita")
	require.Contains(t, p, "Ville de l'entreprise : Lyon")
	require.NotContains(t, p, "{{")
	require.Equal(t, 4, strings.Count(p, "Acme"))
}
