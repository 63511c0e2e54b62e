// Package diffengine compares a desired object against the observed server
// state and produces the field-level change set the reconciler acts on.
// Both sides are canonicalized by the object schemas, so the comparison
// here is pure and idempotent: diffing a desired object against its own
// post-apply state always yields NoOp.
package diffengine

import (
	"reflect"

	"github.com/mosen/jamfsync/internal/model"
	"github.com/mosen/jamfsync/internal/object"
)

// Diff computes the change set for one object. actual is nil when the
// server reports the object absent.
func Diff(desired *object.ManagedObject, actual *object.ManagedObject) model.ChangeSet {
	if actual == nil {
		if desired.Absent {
			// Deleting something that is already gone.
			return model.ChangeSet{Operation: model.OpNoOp, DependenciesSatisfied: true}
		}
		op := model.OpCreate
		if desired.Kind.Singleton() {
			// Singletons always exist server-side; an absent read still
			// converges through update.
			op = model.OpUpdate
		}
		return model.ChangeSet{
			Operation:             op,
			FieldDiffs:            createDiffs(desired),
			DependenciesSatisfied: true,
		}
	}

	if desired.Absent {
		return model.ChangeSet{Operation: model.OpDelete, DependenciesSatisfied: true}
	}

	diffs := updateDiffs(desired, actual)
	op := model.OpUpdate
	if len(diffs) == 0 {
		op = model.OpNoOp
	}
	return model.ChangeSet{Operation: op, FieldDiffs: diffs, DependenciesSatisfied: true}
}

// createDiffs lists every concrete desired field with no prior value.
// Cleared fields are omitted: a new object has nothing to clear.
func createDiffs(desired *object.ManagedObject) []model.FieldDiff {
	var diffs []model.FieldDiff
	for _, name := range desired.ManagedFieldNames() {
		spec, _ := desired.Field(name)
		if spec.Mode != object.ModeValue {
			continue
		}
		diffs = append(diffs, model.FieldDiff{Field: name, Old: nil, New: spec.Value})
	}
	return diffs
}

func updateDiffs(desired, actual *object.ManagedObject) []model.FieldDiff {
	schema := object.SchemaFor(desired.Kind)
	var diffs []model.FieldDiff

	for _, name := range desired.ManagedFieldNames() {
		spec, _ := desired.Field(name)
		fs, ok := schema.Field(name)
		if !ok {
			continue
		}

		// Write-only fields are never read back, so drift on them is
		// undetectable; they are applied on create only.
		if fs.WriteOnly {
			continue
		}

		oldValue, present := actualValue(actual, name)

		switch spec.Mode {
		case object.ModeClear:
			// Clearing only changes anything when the server side holds
			// non-empty content.
			if present && !emptyCollection(oldValue) && oldValue != nil && oldValue != "" {
				diffs = append(diffs, model.FieldDiff{Field: name, Old: oldValue, New: nil})
			}

		case object.ModeValue:
			if equalNormalized(spec.Value, oldValue, present) {
				continue
			}
			diffs = append(diffs, model.FieldDiff{Field: name, Old: oldValue, New: spec.Value})
		}
	}

	return diffs
}

func actualValue(actual *object.ManagedObject, name string) (any, bool) {
	spec, ok := actual.Field(name)
	if !ok || spec.Mode != object.ModeValue {
		return nil, false
	}
	return spec.Value, true
}

// equalNormalized applies the comparison rules: strings case-sensitive,
// sets order-independent (already canonicalized to sorted form), and an
// absent actual field equal to an empty desired collection.
func equalNormalized(desired, actual any, actualPresent bool) bool {
	if !actualPresent {
		return emptyCollection(desired)
	}
	return reflect.DeepEqual(desired, actual)
}

func emptyCollection(v any) bool {
	switch value := v.(type) {
	case []string:
		return len(value) == 0
	case []object.Criterion:
		return len(value) == 0
	case []object.ScriptRun:
		return len(value) == 0
	case map[string]string:
		return len(value) == 0
	}
	return false
}
