package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jimezsa/jobsweep/internal/config"
)

// termKind names one side of the query product and the JSON field that
// carries it in a term file.
type termKind struct {
	flag  string
	field string
}

var (
	titleTerms    = termKind{flag: "titles", field: "job_titles"}
	locationTerms = termKind{flag: "locations", field: "locations"}
)

// resolveTerms merges inline comma-separated terms with the terms in file.
// Duplicates are dropped case-insensitively, keeping the first spelling.
func resolveTerms(kind termKind, inline string, file string) ([]string, error) {
	inlineTerms := splitTerms(inline)

	var fileTerms []string
	if strings.TrimSpace(file) != "" {
		var err error
		fileTerms, err = loadTerms(kind, file)
		if err != nil {
			return nil, err
		}
	}

	return mergeTerms(kind, inlineTerms, fileTerms)
}

func splitTerms(raw string) []string {
	parts := strings.Split(raw, ",")
	terms := make([]string, 0, len(parts))

	for _, part := range parts {
		term := strings.TrimSpace(part)
		if term == "" {
			continue
		}
		terms = append(terms, term)
	}

	return terms
}

func mergeTerms(kind termKind, primary []string, secondary []string) ([]string, error) {
	terms := make([]string, 0, len(primary)+len(secondary))
	seenTerms := make(map[string]struct{}, len(primary)+len(secondary))

	appendUnique := func(raw string) {
		term := strings.TrimSpace(raw)
		if term == "" {
			return
		}
		normalized := strings.ToLower(term)
		if _, exists := seenTerms[normalized]; exists {
			return
		}
		seenTerms[normalized] = struct{}{}
		terms = append(terms, term)
	}

	for _, term := range primary {
		appendUnique(term)
	}
	for _, term := range secondary {
		appendUnique(term)
	}

	if len(terms) == 0 {
		return nil, fmt.Errorf("at least one non-empty term is required (--%s or its inline flag)", kind.flag)
	}

	return terms, nil
}

func loadTerms(kind termKind, path string) ([]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return loadTermsFromJSON(kind, path)
	}
	terms, err := config.ReadList(path, false)
	if err != nil {
		return nil, fmt.Errorf("read --%s %q: %w", kind.flag, path, err)
	}
	return terms, nil
}

func loadTermsFromJSON(kind termKind, path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read --%s %q: %w", kind.flag, path, err)
	}

	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("parse --%s %q: %w", kind.flag, path, err)
	}

	switch value := decoded.(type) {
	case []any:
		return parseStringArray(value, kind, path, "root array")
	case map[string]any:
		raw, ok := value[kind.field]
		if !ok {
			return nil, fmt.Errorf("invalid --%s %q: expected top-level string array or object with %q string array", kind.flag, path, kind.field)
		}
		items, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("invalid --%s %q: field %q must be an array of strings", kind.flag, path, kind.field)
		}
		return parseStringArray(items, kind, path, kind.field)
	default:
		return nil, fmt.Errorf("invalid --%s %q: expected top-level string array or object with %q string array", kind.flag, path, kind.field)
	}
}

func parseStringArray(values []any, kind termKind, path string, fieldName string) ([]string, error) {
	terms := make([]string, 0, len(values))
	for idx, rawValue := range values {
		term, ok := rawValue.(string)
		if !ok {
			return nil, fmt.Errorf("invalid --%s %q: %s[%d] must be a string", kind.flag, path, fieldName, idx)
		}
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		terms = append(terms, term)
	}
	return terms, nil
}
