package recipe

import (
	"encoding/json"
	"strings"
	"time"
)

const (
	// DefaultName replaces a missing or non-string recipe name.
	DefaultName = "Mystery Recipe"
	// DefaultExplanation replaces a missing or non-string explanation.
	DefaultExplanation = "A perfect match for your mood!"
)

// Normalize turns raw backend output into a Recipe for mood, stamped with
// now. Each field falls back to its default on its own; only text with no
// parseable JSON at all is an error.
func Normalize(raw, mood string, now time.Time) (*Recipe, error) {
	data, err := parseLoose(raw)
	if err != nil {
		return nil, newError(ErrParse,
			"Received an invalid response from the recipe backend. Please check that your API key is configured correctly.", err)
	}

	fields, _ := data.(map[string]any)

	r := &Recipe{
		Name:         stringOr(fields["name"], DefaultName),
		Ingredients:  stringList(fields["ingredients"]),
		Instructions: stringList(fields["instructions"]),
		Explanation:  stringOr(fields["explanation"], DefaultExplanation),
		Mood:         mood,
		Timestamp:    now.UnixMilli(),
	}
	return r, nil
}

// parseLoose decodes raw as JSON. When the text as a whole is not valid JSON
// the outermost {...} block is tried, which covers replies wrapped in
// markdown fences or prose.
func parseLoose(raw string) (any, error) {
	text := strings.TrimSpace(raw)

	var v any
	err := json.Unmarshal([]byte(text), &v)
	if err == nil {
		return v, nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || start > end {
		return nil, err
	}
	if inner := json.Unmarshal([]byte(text[start:end+1]), &v); inner != nil {
		return nil, inner
	}
	return v, nil
}

func stringOr(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

// stringList returns v as a list of strings if v is a JSON array, otherwise
// an empty list. Numbers and booleans keep their JSON text; null, arrays and
// objects inside the list are dropped.
func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch x := item.(type) {
		case string:
			out = append(out, x)
		case float64, bool:
			b, _ := json.Marshal(x)
			out = append(out, string(b))
		}
	}
	return out
}
