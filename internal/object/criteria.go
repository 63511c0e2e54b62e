package object

import (
	"fmt"
	"sort"
)

// Criterion is the canonical form of one smart-group membership rule.
// Criterion order is significant on the server, so the list stays ordered;
// only the two input spellings collapse into this one form.
type Criterion struct {
	Name       string
	AndOr      string
	SearchType string
	Value      string
}

// searchTypes is the server's closed vocabulary for criterion operators.
var searchTypes = []string{
	"is",
	"is not",
	"has",
	"does not have",
	"like",
	"not like",
	"matches regex",
	"does not match regex",
	"member of",
	"not member of",
	"greater than",
	"greater than or equal",
	"less than",
	"less than or equal",
	"before (yyyy-mm-dd)",
	"after (yyyy-mm-dd)",
	"more than x days ago",
	"less than x days ago",
}

// shorthandSearchTypes maps the compact criterion keys to canonical
// operators. A criterion may use exactly one of these instead of the flat
// search_type/value pair.
var shorthandSearchTypes = map[string]string{
	"is":                    "is",
	"is_not":                "is not",
	"has":                   "has",
	"not_has":               "does not have",
	"like":                  "like",
	"not_like":              "not like",
	"matches_regex":         "matches regex",
	"not_matches_regex":     "does not match regex",
	"member_of":             "member of",
	"not_member_of":         "not member of",
	"greater_than":          "greater than",
	"greater_than_or_equal": "greater than or equal",
	"less_than":             "less than",
	"less_than_or_equal":    "less than or equal",
	"before":                "before (yyyy-mm-dd)",
	"after":                 "after (yyyy-mm-dd)",
}

func validSearchType(s string) bool {
	for _, known := range searchTypes {
		if s == known {
			return true
		}
	}
	return false
}

// normalizeCriteria converts either criterion spelling into the canonical
// ordered list. Mixing both spellings inside one criterion is an error, as
// is using more than one shorthand key.
func normalizeCriteria(v any) ([]Criterion, error) {
	entries, ok := v.([]any)
	if !ok {
		if typed, isTyped := v.([]Criterion); isTyped {
			return append([]Criterion(nil), typed...), nil
		}
		return nil, fmt.Errorf("expected criterion list, got %T", v)
	}

	criteria := make([]Criterion, 0, len(entries))
	for i, entry := range entries {
		m, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("criterion %d: expected mapping, got %T", i, entry)
		}

		criterion, err := normalizeCriterion(m)
		if err != nil {
			return nil, fmt.Errorf("criterion %d: %w", i, err)
		}
		criteria = append(criteria, criterion)
	}

	return criteria, nil
}

func normalizeCriterion(m map[string]any) (Criterion, error) {
	c := Criterion{AndOr: "and"}

	name, ok := m["name"].(string)
	if !ok || name == "" {
		return c, fmt.Errorf("missing criterion name")
	}
	c.Name = name

	if andOr, present := m["and_or"]; present {
		s, ok := andOr.(string)
		if !ok || (s != "and" && s != "or") {
			return c, fmt.Errorf("and_or must be \"and\" or \"or\"")
		}
		c.AndOr = s
	}

	// Collect shorthand keys deterministically so duplicate use reports
	// the same error regardless of map iteration order.
	var shorthands []string
	for key := range m {
		if _, isShorthand := shorthandSearchTypes[key]; isShorthand {
			shorthands = append(shorthands, key)
		}
	}
	sort.Strings(shorthands)

	_, hasFlat := m["search_type"]

	switch {
	case len(shorthands) > 1:
		return c, fmt.Errorf("criterion uses multiple operators: %v", shorthands)
	case len(shorthands) == 1 && hasFlat:
		return c, fmt.Errorf("criterion mixes %q shorthand with search_type", shorthands[0])
	case len(shorthands) == 1:
		key := shorthands[0]
		value, ok := m[key].(string)
		if !ok {
			return c, fmt.Errorf("%s value must be a string", key)
		}
		c.SearchType = shorthandSearchTypes[key]
		c.Value = value
	case hasFlat:
		searchType, ok := m["search_type"].(string)
		if !ok || !validSearchType(searchType) {
			return c, fmt.Errorf("invalid search_type %v", m["search_type"])
		}
		value, ok := m["value"].(string)
		if !ok {
			return c, fmt.Errorf("missing criterion value")
		}
		c.SearchType = searchType
		c.Value = value
	default:
		return c, fmt.Errorf("criterion needs an operator (shorthand key or search_type)")
	}

	return c, nil
}
