package report

// SchemaName is the structured output format name sent to the provider.
const SchemaName = "reputation_analysis"

type obj = map[string]any

func strType() obj { return obj{"type": "string"} }

func strArray(minItems int) obj {
	s := obj{"type": "array", "items": strType()}
	if minItems > 0 {
		s["minItems"] = minItems
	}
	return s
}

func object(required []string, props obj) obj {
	s := obj{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// Schema returns the JSON schema describing Report. A fresh value is built on
// every call so callers may mutate it.
func Schema() map[string]any {
	part1 := object(
		[]string{"syntheseIdentite", "nuageMots", "sentimentGlobal", "forces", "faiblesses", "sujets", "recommandations"},
		obj{
			"syntheseIdentite": strArray(3),
			"nuageMots": obj{
				"type":     "array",
				"minItems": 10,
				"items":    object([]string{"mot", "poids"}, obj{"mot": strType(), "poids": obj{"type": "number"}}),
			},
			"sentimentGlobal": object([]string{"evaluation", "justification"}, obj{
				"evaluation":    strType(),
				"justification": strType(),
				"exemples":      strArray(0),
				"details":       strType(),
			}),
			"forces":     strArray(1),
			"faiblesses": strArray(1),
			"sujets":     strArray(1),
			"recommandations": obj{
				"type":     "array",
				"minItems": 1,
				"items":    object([]string{"faiblesse", "action"}, obj{"faiblesse": strType(), "action": strType()}),
			},
		},
	)

	part2 := object(nil, obj{
		"resume": strType(),
		"details": obj{
			"type": "array",
			"items": object(nil, obj{
				"acteur":       strType(),
				"sentiment":    strType(),
				"specialites":  strType(),
				"pointsForts":  strArray(0),
				"faiblesses":   strArray(0),
				"commentaires": strType(),
			}),
		},
	})

	part3 := object([]string{"generation", "visibilite"}, obj{
		"introduction": strType(),
		"generation": object([]string{"questions"}, obj{
			"introduction": strType(),
			"questions": obj{
				"type":     "array",
				"minItems": 1,
				"items":    object([]string{"question"}, obj{"question": strType(), "contexte": strType()}),
			},
		}),
		"visibilite": object([]string{"analyses"}, obj{
			"introduction": strType(),
			"analyses": obj{
				"type": "array",
				"items": object([]string{"question", "mentionProbable", "justification", "concurrents"}, obj{
					"question":        strType(),
					"mentionProbable": strType(),
					"justification":   strType(),
					"concurrents":     strArray(0),
					"commentaires":    strType(),
				}),
			},
		}),
	})

	return object([]string{"part1", "part3", "notice"}, obj{
		"part1":  part1,
		"part2":  part2,
		"part3":  part3,
		"notice": strType(),
	})
}
