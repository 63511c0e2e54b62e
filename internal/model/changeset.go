package model

// Operation identifies what the reconciler must do to converge a single
// object toward its desired state.
type Operation string

const (
	// OpNoOp means desired and actual already match; no remote call is made.
	OpNoOp Operation = "noop"
	// OpCreate means the object is absent on the server.
	OpCreate Operation = "create"
	// OpUpdate means the object exists but at least one managed field differs.
	OpUpdate Operation = "update"
	// OpDelete means the desired spec declares a tombstone for the object.
	OpDelete Operation = "delete"
)

// FieldDiff records a single managed field whose normalized desired value
// differs from the actual value. Old is nil for fields absent on the server.
type FieldDiff struct {
	Field string
	Old   any
	New   any
}

// ChangeSet is the Diff Engine's verdict for one object.
type ChangeSet struct {
	Operation  Operation
	FieldDiffs []FieldDiff

	// DependenciesSatisfied is filled in by the reconciler before apply:
	// false when a required reference failed earlier in the run.
	DependenciesSatisfied bool
}

// Empty reports whether the change set requires no remote call.
func (c ChangeSet) Empty() bool {
	return c.Operation == OpNoOp
}
