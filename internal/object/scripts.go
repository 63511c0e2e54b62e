package object

import (
	"fmt"
)

// ScriptRun is the canonical form of one policy script entry: the script's
// name plus its positional run parameters (server parameters 4 through 11).
type ScriptRun struct {
	Name       string
	Parameters []string
}

const maxScriptParameters = 8

// normalizeScriptRuns accepts entries that are either a bare script name or
// a mapping with name and parameters, and returns the canonical ordered
// list. Entry order is the order scripts run in, so it is preserved.
func normalizeScriptRuns(v any) ([]ScriptRun, error) {
	if typed, ok := v.([]ScriptRun); ok {
		return append([]ScriptRun(nil), typed...), nil
	}

	entries, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected script list, got %T", v)
	}

	runs := make([]ScriptRun, 0, len(entries))
	for i, entry := range entries {
		switch e := entry.(type) {
		case string:
			if e == "" {
				return nil, fmt.Errorf("script %d: empty name", i)
			}
			runs = append(runs, ScriptRun{Name: e})

		case map[string]any:
			name, ok := e["name"].(string)
			if !ok || name == "" {
				return nil, fmt.Errorf("script %d: missing name", i)
			}
			run := ScriptRun{Name: name}
			if raw, present := e["parameters"]; present {
				params, err := toStringSlice(raw)
				if err != nil {
					return nil, fmt.Errorf("script %d: %w", i, err)
				}
				if len(params) > maxScriptParameters {
					return nil, fmt.Errorf("script %d: at most %d parameters allowed", i, maxScriptParameters)
				}
				run.Parameters = params
			}
			runs = append(runs, run)

		default:
			return nil, fmt.Errorf("script %d: expected name or mapping, got %T", i, entry)
		}
	}

	return runs, nil
}
