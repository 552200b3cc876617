package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseAliases accepts a JSON array, a string holding a JSON array or a
// plain string (a single alias). Anything else yields an empty list.
func ParseAliases(v any) []string {
	switch t := v.(type) {
	case []any:
		return stringsOf(t)
	case []string:
		out := make([]string, 0, len(t))
		for _, s := range t {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return []string{}
		}
		var arr []any
		if err := json.Unmarshal([]byte(s), &arr); err == nil {
			return stringsOf(arr)
		}
		return []string{s}
	}
	return []string{}
}

func stringsOf(arr []any) []string {
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		var s string
		switch t := item.(type) {
		case nil:
			continue
		case string:
			s = t
		case bool:
			if !t {
				continue
			}
			s = "true"
		default:
			s = fmt.Sprint(t)
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ParseCompetitors accepts a list mixing plain names and {name, website}
// objects. Blank entries are dropped.
func ParseCompetitors(v any) []Competitor {
	arr, ok := v.([]any)
	if !ok {
		return []Competitor{}
	}
	out := make([]Competitor, 0, len(arr))
	for _, item := range arr {
		switch t := item.(type) {
		case string:
			out = append(out, Competitor{Name: t})
		case map[string]any:
			name, _ := t["name"].(string)
			website, _ := t["website"].(string)
			out = append(out, Competitor{Name: name, Website: website})
		}
	}
	return CleanCompetitors(out)
}
