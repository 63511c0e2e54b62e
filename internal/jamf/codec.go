package jamf

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mosen/jamfsync/internal/model"
	"github.com/mosen/jamfsync/internal/object"
)

// xmlNode is a generic XML element tree. Serialization is driven entirely
// by the field schemas, so a single node type covers every resource kind.
type xmlNode struct {
	XMLName xml.Name
	Text    string     `xml:",chardata"`
	Nodes   []*xmlNode `xml:",any"`
}

func textNode(name, text string) *xmlNode {
	return &xmlNode{XMLName: xml.Name{Local: name}, Text: text}
}

func (n *xmlNode) child(name string) *xmlNode {
	for _, c := range n.Nodes {
		if c.XMLName.Local == name {
			return c
		}
	}
	return nil
}

func (n *xmlNode) text() string {
	return strings.TrimSpace(n.Text)
}

// ensurePath walks the segments below n, creating container elements as
// needed, and returns the innermost node.
func ensurePath(n *xmlNode, segments []string) *xmlNode {
	for _, segment := range segments {
		next := n.child(segment)
		if next == nil {
			next = &xmlNode{XMLName: xml.Name{Local: segment}}
			n.Nodes = append(n.Nodes, next)
		}
		n = next
	}
	return n
}

// findPath resolves a dotted field path against a decoded document.
func findPath(n *xmlNode, segments []string) *xmlNode {
	for _, segment := range segments {
		if n = n.child(segment); n == nil {
			return nil
		}
	}
	return n
}

// itemElement names the repeated child element for a collection field.
func itemElement(field string) string {
	switch field {
	case "criteria":
		return "criterion"
	case "before", "after":
		return "script"
	case "install":
		return "package"
	case "use_for":
		return "service"
	case "triggers":
		return "trigger"
	case "computer_groups":
		return "computer_group"
	case "parameters":
		return "parameter"
	default:
		return strings.TrimSuffix(field, "s")
	}
}

// encodeCreate renders the full managed field set of a new object.
func encodeCreate(desired *object.ManagedObject) ([]byte, error) {
	root := &xmlNode{XMLName: xml.Name{Local: rootElement(desired.Kind)}}
	if !desired.Kind.Singleton() {
		root.Nodes = append(root.Nodes, textNode("name", desired.Name))
	}
	if desired.Kind == object.KindSmartComputerGroup {
		root.Nodes = append(root.Nodes, textNode("is_smart", "true"))
	}

	schema := object.SchemaFor(desired.Kind)
	for _, field := range desired.FieldNames() {
		spec, _ := desired.Field(field)
		if spec.Mode != object.ModeValue {
			// Unmanaged fields stay untouched and cleared fields match the
			// server default on a fresh object, so neither is sent.
			continue
		}
		fs, ok := schema.Field(field)
		if !ok {
			return nil, fmt.Errorf("field %s: not in %s schema", field, desired.Kind)
		}
		if err := setField(root, field, fs, spec.Value); err != nil {
			return nil, fmt.Errorf("field %s: %w", field, err)
		}
	}

	return xml.Marshal(root)
}

// encodeUpdate renders only the changed fields. A nil new value clears the
// field by sending its empty container element.
func encodeUpdate(kind object.Kind, diffs []model.FieldDiff) ([]byte, error) {
	root := &xmlNode{XMLName: xml.Name{Local: rootElement(kind)}}
	schema := object.SchemaFor(kind)

	for _, diff := range diffs {
		fs, ok := schema.Field(diff.Field)
		if !ok {
			return nil, fmt.Errorf("field %s: not in %s schema", diff.Field, kind)
		}
		if diff.New == nil {
			ensurePath(root, strings.Split(diff.Field, "."))
			continue
		}
		if err := setField(root, diff.Field, fs, diff.New); err != nil {
			return nil, fmt.Errorf("field %s: %w", diff.Field, err)
		}
	}

	return xml.Marshal(root)
}

func setField(root *xmlNode, field string, fs object.FieldSchema, v any) error {
	segments := strings.Split(field, ".")
	parent := ensurePath(root, segments[:len(segments)-1])
	leaf := segments[len(segments)-1]

	node, err := valueNode(leaf, fs, v)
	if err != nil {
		return err
	}
	parent.Nodes = append(parent.Nodes, node)
	return nil
}

func valueNode(leaf string, fs object.FieldSchema, v any) (*xmlNode, error) {
	switch fs.Shape {
	case object.ShapeString, object.ShapeEnum:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", v)
		}
		return textNode(leaf, s), nil

	case object.ShapeBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("expected bool, got %T", v)
		}
		return textNode(leaf, strconv.FormatBool(b)), nil

	case object.ShapeInt:
		n, ok := v.(int)
		if !ok {
			return nil, fmt.Errorf("expected int, got %T", v)
		}
		return textNode(leaf, strconv.Itoa(n)), nil

	case object.ShapeStringList, object.ShapeStringSet:
		items, ok := v.([]string)
		if !ok {
			return nil, fmt.Errorf("expected string list, got %T", v)
		}
		node := &xmlNode{XMLName: xml.Name{Local: leaf}}
		item := itemElement(leaf)
		for _, s := range items {
			node.Nodes = append(node.Nodes, textNode(item, s))
		}
		return node, nil

	case object.ShapePairs:
		pairs, ok := v.(map[string]string)
		if !ok {
			return nil, fmt.Errorf("expected string mapping, got %T", v)
		}
		keys := make([]string, 0, len(pairs))
		for k := range pairs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		node := &xmlNode{XMLName: xml.Name{Local: leaf}}
		for _, k := range keys {
			node.Nodes = append(node.Nodes, textNode(k, pairs[k]))
		}
		return node, nil

	case object.ShapeCriteria:
		criteria, ok := v.([]object.Criterion)
		if !ok {
			return nil, fmt.Errorf("expected criterion list, got %T", v)
		}
		node := &xmlNode{XMLName: xml.Name{Local: leaf}}
		for _, c := range criteria {
			node.Nodes = append(node.Nodes, &xmlNode{
				XMLName: xml.Name{Local: "criterion"},
				Nodes: []*xmlNode{
					textNode("name", c.Name),
					textNode("and_or", c.AndOr),
					textNode("search_type", c.SearchType),
					textNode("value", c.Value),
				},
			})
		}
		return node, nil

	case object.ShapeScriptRuns:
		runs, ok := v.([]object.ScriptRun)
		if !ok {
			return nil, fmt.Errorf("expected script run list, got %T", v)
		}
		node := &xmlNode{XMLName: xml.Name{Local: leaf}}
		for _, run := range runs {
			entry := &xmlNode{
				XMLName: xml.Name{Local: "script"},
				Nodes:   []*xmlNode{textNode("name", run.Name)},
			}
			for _, param := range run.Parameters {
				entry.Nodes = append(entry.Nodes, textNode("parameter", param))
			}
			node.Nodes = append(node.Nodes, entry)
		}
		return node, nil
	}

	return nil, fmt.Errorf("unsupported value shape %d", fs.Shape)
}

// decodeObject parses a resource document back into the managed object
// model. Write-only fields never appear in responses and are skipped; so
// are scalar elements the server left empty.
func decodeObject(kind object.Kind, name string, body []byte) (*object.ManagedObject, error) {
	var root xmlNode
	if err := xml.Unmarshal(body, &root); err != nil {
		return nil, fmt.Errorf("decode %s document: %w", kind, err)
	}

	obj, err := object.New(kind, name)
	if err != nil {
		return nil, err
	}

	schema := object.SchemaFor(kind)
	for _, field := range schema.FieldNames() {
		fs, _ := schema.Field(field)
		if fs.WriteOnly {
			continue
		}

		node := findPath(&root, strings.Split(field, "."))
		if node == nil {
			continue
		}

		value, present, err := parseValue(fs, node)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field, err)
		}
		if !present {
			continue
		}
		if err := obj.SetField(field, object.Value(value)); err != nil {
			return nil, err
		}
	}

	return obj, nil
}

func parseValue(fs object.FieldSchema, node *xmlNode) (any, bool, error) {
	switch fs.Shape {
	case object.ShapeString:
		// Raw character data: trimming would corrupt multi-line content
		// such as script bodies and cause perpetual drift.
		return node.Text, true, nil

	case object.ShapeEnum:
		return node.text(), true, nil

	case object.ShapeBool:
		text := node.text()
		if text == "" {
			return nil, false, nil
		}
		b, err := strconv.ParseBool(text)
		if err != nil {
			return nil, false, fmt.Errorf("invalid boolean %q", text)
		}
		return b, true, nil

	case object.ShapeInt:
		text := node.text()
		if text == "" {
			return nil, false, nil
		}
		n, err := strconv.Atoi(text)
		if err != nil {
			return nil, false, fmt.Errorf("invalid integer %q", text)
		}
		return n, true, nil

	case object.ShapeStringList, object.ShapeStringSet:
		items := make([]string, 0, len(node.Nodes))
		for _, c := range node.Nodes {
			items = append(items, c.text())
		}
		return items, true, nil

	case object.ShapePairs:
		pairs := make(map[string]string, len(node.Nodes))
		for _, c := range node.Nodes {
			pairs[c.XMLName.Local] = c.text()
		}
		return pairs, true, nil

	case object.ShapeCriteria:
		criteria := make([]object.Criterion, 0, len(node.Nodes))
		for _, c := range node.Nodes {
			if c.XMLName.Local != "criterion" {
				continue
			}
			criterion := object.Criterion{AndOr: "and"}
			if n := c.child("name"); n != nil {
				criterion.Name = n.text()
			}
			if n := c.child("and_or"); n != nil && n.text() != "" {
				criterion.AndOr = n.text()
			}
			if n := c.child("search_type"); n != nil {
				criterion.SearchType = n.text()
			}
			if n := c.child("value"); n != nil {
				criterion.Value = n.text()
			}
			criteria = append(criteria, criterion)
		}
		return criteria, true, nil

	case object.ShapeScriptRuns:
		runs := make([]object.ScriptRun, 0, len(node.Nodes))
		for _, c := range node.Nodes {
			if c.XMLName.Local != "script" {
				continue
			}
			run := object.ScriptRun{}
			if n := c.child("name"); n != nil {
				run.Name = n.text()
			}
			for _, p := range c.Nodes {
				if p.XMLName.Local == "parameter" {
					run.Parameters = append(run.Parameters, p.text())
				}
			}
			runs = append(runs, run)
		}
		return runs, true, nil
	}

	return nil, false, fmt.Errorf("unsupported value shape %d", fs.Shape)
}
