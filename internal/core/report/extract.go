package report

import "strings"

// partsOf normalises a content field to a slice: arrays pass through, a
// single value becomes a one element slice, nil yields nothing.
func partsOf(content any) []any {
	switch c := content.(type) {
	case nil:
		return nil
	case []any:
		return c
	default:
		return []any{c}
	}
}

func joinParts(parts []any, pick func(map[string]any) (string, bool)) string {
	var texts []string
	for _, part := range parts {
		var s string
		switch p := part.(type) {
		case string:
			s = p
		case map[string]any:
			s, _ = pick(p)
		}
		if strings.TrimSpace(s) != "" {
			texts = append(texts, s)
		}
	}
	return strings.Join(texts, "\n")
}

func outputTextPart(p map[string]any) (string, bool) {
	typ, _ := p["type"].(string)
	if typ != "output_text" && typ != "text" {
		return "", false
	}
	s, ok := p["text"].(string)
	return s, ok
}

func anyTextPart(p map[string]any) (string, bool) {
	s, ok := p["text"].(string)
	return s, ok
}

// ExtractText returns the first non-empty text found in a provider payload.
// Candidates are tried in order: output_text, text.content, the text parts of
// every output[] item, content[] parts, result and response.
func ExtractText(payload any) string {
	root, ok := asObject(payload)
	if !ok {
		return ""
	}

	var candidates []string
	if s, ok := root["output_text"].(string); ok {
		candidates = append(candidates, s)
	}
	if text, ok := asObject(root["text"]); ok {
		if s, ok := text["content"].(string); ok {
			candidates = append(candidates, s)
		}
	}
	if output, ok := root["output"].([]any); ok {
		for _, item := range output {
			m, ok := asObject(item)
			if !ok {
				continue
			}
			if s := joinParts(partsOf(m["content"]), outputTextPart); s != "" {
				candidates = append(candidates, s)
			}
		}
	}
	if content, ok := root["content"].([]any); ok {
		if s := joinParts(content, anyTextPart); s != "" {
			candidates = append(candidates, s)
		}
	}
	if s, ok := root["result"].(string); ok {
		candidates = append(candidates, s)
	}
	if s, ok := root["response"].(string); ok {
		candidates = append(candidates, s)
	}

	for _, c := range candidates {
		if t := strings.TrimSpace(c); t != "" {
			return t
		}
	}
	return ""
}

// ExtractStructured returns an already decoded JSON value carried by the
// payload, either as output_json or as the json field of an output part.
func ExtractStructured(payload any) (any, bool) {
	root, ok := asObject(payload)
	if !ok {
		return nil, false
	}
	if v, ok := root["output_json"]; ok && v != nil {
		return v, true
	}
	output, _ := root["output"].([]any)
	for _, item := range output {
		m, ok := asObject(item)
		if !ok {
			continue
		}
		for _, part := range partsOf(m["content"]) {
			p, ok := asObject(part)
			if !ok {
				continue
			}
			if v, ok := p["json"]; ok && v != nil {
				return v, true
			}
		}
	}
	return nil, false
}
