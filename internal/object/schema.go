package object

import (
	"fmt"
	"sort"
)

// ValueShape is the expected shape of a field's value.
type ValueShape int

const (
	// ShapeString is a free-form scalar string.
	ShapeString ValueShape = iota
	// ShapeBool is a boolean flag.
	ShapeBool
	// ShapeInt is an integer scalar.
	ShapeInt
	// ShapeEnum is a string constrained to a closed vocabulary.
	ShapeEnum
	// ShapeStringList is an ordered list of strings.
	ShapeStringList
	// ShapeStringSet is an unordered set of strings; canonical form is
	// sorted so comparison is order-independent.
	ShapeStringSet
	// ShapePairs is a mapping of string keys to string values, compared
	// by key identity first and then by value.
	ShapePairs
	// ShapeCriteria is a smart-group criterion list accepting both the
	// is/is_not shorthand and the flat property form.
	ShapeCriteria
	// ShapeScriptRuns is a policy script list whose entries are either a
	// bare script name or a name with run parameters.
	ShapeScriptRuns
)

// FieldSchema describes one field of a kind.
type FieldSchema struct {
	Shape ValueShape
	Enum  []string

	// Ref marks the field as a reference to another kind. For list and
	// script-run shapes every entry is a reference.
	Ref         Kind
	RefRequired bool

	// WriteOnly fields (passwords) are sent on create/update but never
	// read back, so they are excluded from drift comparison.
	WriteOnly bool
}

// Schema is the full field layout for one kind.
type Schema struct {
	kind     Kind
	fields   map[string]FieldSchema
	required []string
}

// Field looks up the schema for a field name.
func (s Schema) Field(name string) (FieldSchema, bool) {
	fs, ok := s.fields[name]
	return fs, ok
}

// FieldNames returns every schema field name, sorted.
func (s Schema) FieldNames() []string {
	names := make([]string, 0, len(s.fields))
	for name := range s.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Canonicalize validates v against the schema shape and returns its
// canonical comparison form.
func (fs FieldSchema) Canonicalize(v any) (any, error) {
	switch fs.Shape {
	case ShapeString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", v)
		}
		return s, nil

	case ShapeBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("expected bool, got %T", v)
		}
		return b, nil

	case ShapeInt:
		switch n := v.(type) {
		case int:
			return n, nil
		case int64:
			return int(n), nil
		default:
			return nil, fmt.Errorf("expected integer, got %T", v)
		}

	case ShapeEnum:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", v)
		}
		for _, allowed := range fs.Enum {
			if s == allowed {
				return s, nil
			}
		}
		return nil, fmt.Errorf("value %q not in allowed set %v", s, fs.Enum)

	case ShapeStringList:
		return toStringSlice(v)

	case ShapeStringSet:
		items, err := toStringSlice(v)
		if err != nil {
			return nil, err
		}
		if len(fs.Enum) > 0 {
			for _, item := range items {
				allowed := false
				for _, candidate := range fs.Enum {
					if item == candidate {
						allowed = true
						break
					}
				}
				if !allowed {
					return nil, fmt.Errorf("value %q not in allowed set %v", item, fs.Enum)
				}
			}
		}
		sort.Strings(items)
		return items, nil

	case ShapePairs:
		return toStringMap(v)

	case ShapeCriteria:
		return normalizeCriteria(v)

	case ShapeScriptRuns:
		return normalizeScriptRuns(v)
	}

	return nil, fmt.Errorf("unsupported value shape %d", fs.Shape)
}

func toStringSlice(v any) ([]string, error) {
	switch items := v.(type) {
	case []string:
		return append([]string(nil), items...), nil
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected list of strings, got %T entry", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected list, got %T", v)
	}
}

func toStringMap(v any) (map[string]string, error) {
	switch m := v.(type) {
	case map[string]string:
		out := make(map[string]string, len(m))
		for k, val := range m {
			out[k] = val
		}
		return out, nil
	case map[string]any:
		out := make(map[string]string, len(m))
		for k, val := range m {
			s, ok := val.(string)
			if !ok {
				return nil, fmt.Errorf("expected string value for key %q, got %T", k, val)
			}
			out[k] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected mapping, got %T", v)
	}
}
