package report_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

const validReport = `{
  "part1": {
    "syntheseIdentite": ["  Acme fabrique des outils.  ", ""],
    "nuageMots": [
      {"mot": "outils", "poids": 80},
      {"mot": "qualité", "poids": "140"},
      {"mot": "", "poids": 20},
      {"mot": "prix", "poids": "cher"}
    ],
    "sentimentGlobal": {"evaluation": "Positive", "justification": "Bons avis", "exemples": []},
    "forces": ["robuste"],
    "faiblesses": ["prix"],
    "sujets": ["bricolage"],
    "recommandations": [{"faiblesse": "prix", "action": "promotions"}, {"faiblesse": "x"}]
  },
  "part2": {"resume": "", "details": []},
  "part3": {
    "generation": {"questions": [{"question": "Meilleur outil ?"}, {"question": " "}]},
    "visibilite": {"analyses": [
      {"question": "Meilleur outil ?", "mentionProbable": "Oui", "justification": "notoriété", "concurrents": ["Bosch", "Makita"]},
      {"question": "Outil pas cher ?", "mentionProbable": "non", "justification": "prix", "concurrents": ["Makita", " Ryobi "]},
      {"question": "Incomplet", "mentionProbable": "Oui"}
    ]}
  },
  "notice": "Ce rapport est une synthèse."
}`

func decodeFixture(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}
