// Package spec loads declarative specification documents and turns them
// into validated ManagedObject values ready for reconciliation. Field
// order is preserved from the document, explicit null marks a field
// unmanaged, and an explicit empty collection marks it for clearing.
package spec

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mosen/jamfsync/internal/object"
	jamferrors "github.com/mosen/jamfsync/pkg/errors"
)

// File is one parsed specification document.
type File struct {
	Version string
	Name    string
	Objects []*object.ManagedObject
}

type rawDocument struct {
	Version string      `yaml:"version"`
	Name    string      `yaml:"name"`
	Objects []yaml.Node `yaml:"objects"`
}

type objectHeader struct {
	Kind       string   `yaml:"kind" validate:"required,object_kind"`
	Name       string   `yaml:"name" validate:"required,min=1,max=255"`
	Absent     bool     `yaml:"absent"`
	ApplyAfter []string `yaml:"apply_after" validate:"omitempty,dive,object_id"`
}

// ParseFile loads one document from disk.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, jamferrors.NewParseError(path, 0, err)
	}
	return Parse(path, data)
}

// Parse decodes and validates a document. path is used only for error
// reporting.
func Parse(path string, data []byte) (*File, error) {
	var raw rawDocument
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, jamferrors.NewParseError(path, 0, err)
	}

	file := &File{Version: raw.Version, Name: raw.Name}
	for i := range raw.Objects {
		obj, err := decodeObject(&raw.Objects[i])
		if err != nil {
			return nil, err
		}
		file.Objects = append(file.Objects, obj)
	}

	return file, nil
}

// ParseDir loads every *.yaml/*.yml document in a directory in lexical
// order and concatenates their objects.
func ParseDir(dir string) ([]*object.ManagedObject, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, jamferrors.NewParseError(dir, 0, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext == ".yaml" || ext == ".yml" {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return nil, jamferrors.NewParseError(dir, 0, fmt.Errorf("no specification documents found"))
	}

	var objects []*object.ManagedObject
	for _, path := range paths {
		file, err := ParseFile(path)
		if err != nil {
			return nil, err
		}
		objects = append(objects, file.Objects...)
	}
	return objects, nil
}

func decodeObject(node *yaml.Node) (*object.ManagedObject, error) {
	var header objectHeader
	if err := node.Decode(&header); err != nil {
		return nil, jamferrors.NewParseError("", node.Line, err)
	}
	if err := validateHeader(header); err != nil {
		return nil, err
	}

	obj, err := object.New(object.Kind(header.Kind), header.Name)
	if err != nil {
		return nil, err
	}
	obj.Absent = header.Absent

	for _, hint := range header.ApplyAfter {
		ref, err := parseRef(hint)
		if err != nil {
			return nil, jamferrors.NewValidationError(obj.ID(), "apply_after", err.Error(), err)
		}
		obj.ApplyAfter = append(obj.ApplyAfter, ref)
	}

	if fields := mappingValue(node, "fields"); fields != nil {
		if err := decodeFields(obj, "", fields); err != nil {
			return nil, err
		}
	}

	if err := obj.Validate(); err != nil {
		return nil, err
	}
	return obj, nil
}

// decodeFields walks a mapping node in document order. Nested mappings
// flatten into dotted field names until the joined name matches a schema
// field, so `scope: {all_computers: true}` and `scope.all_computers: true`
// are the same declaration.
func decodeFields(obj *object.ManagedObject, prefix string, node *yaml.Node) error {
	schema := object.SchemaFor(obj.Kind)

	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		value := node.Content[i+1]

		name := key
		if prefix != "" {
			name = prefix + "." + key
		}

		if value.Tag == "!!null" {
			if err := obj.SetField(name, object.Unmanaged()); err != nil {
				return err
			}
			continue
		}

		if _, known := schema.Field(name); !known && value.Kind == yaml.MappingNode {
			if err := decodeFields(obj, name, value); err != nil {
				return err
			}
			continue
		}

		var decoded any
		if err := value.Decode(&decoded); err != nil {
			return jamferrors.NewParseError("", value.Line, err)
		}

		if emptyDocumentCollection(decoded) {
			if err := obj.SetField(name, object.Clear()); err != nil {
				return err
			}
			continue
		}

		if err := obj.SetField(name, object.Value(decoded)); err != nil {
			return err
		}
	}

	return nil
}

func emptyDocumentCollection(v any) bool {
	switch value := v.(type) {
	case []any:
		return len(value) == 0
	case map[string]any:
		return len(value) == 0
	}
	return false
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key && node.Content[i+1].Kind == yaml.MappingNode {
			return node.Content[i+1]
		}
	}
	return nil
}

func parseRef(id string) (object.Ref, error) {
	parts := strings.SplitN(id, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return object.Ref{}, fmt.Errorf("expected kind/name, got %q", id)
	}
	kind := object.Kind(parts[0])
	if !kind.Valid() {
		return object.Ref{}, fmt.Errorf("unknown kind %q", parts[0])
	}
	return object.Ref{Kind: kind, Name: parts[1], Required: true}, nil
}
