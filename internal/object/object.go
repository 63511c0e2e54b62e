// Package object defines the typed model for every kind the engine manages,
// the field schemas used to validate desired specifications, and the pure
// reference extraction consumed by the dependency resolver.
package object

import (
	"fmt"

	jamferrors "github.com/mosen/jamfsync/pkg/errors"
)

// Kind identifies one managed object type on the server.
type Kind string

const (
	KindAccount            Kind = "account"
	KindScript             Kind = "script"
	KindCategory           Kind = "category"
	KindSmartComputerGroup Kind = "smart_computer_group"
	KindPolicy             Kind = "policy"
	KindLdapServer         Kind = "ldap_server"
	KindSsoSettings        Kind = "sso_settings"
	KindEnrollmentSettings Kind = "enrollment_settings"

	// KindPackage is reference-only: policies may name packages, but the
	// engine does not manage package objects themselves.
	KindPackage Kind = "package"
)

// Kinds lists every manageable kind in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindAccount,
		KindScript,
		KindCategory,
		KindSmartComputerGroup,
		KindPolicy,
		KindLdapServer,
		KindSsoSettings,
		KindEnrollmentSettings,
	}
}

// Valid reports whether k names a manageable kind.
func (k Kind) Valid() bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

// Singleton reports whether the kind has a single implicit instance on the
// server. Singletons are only ever updated in place, never created or
// deleted.
func (k Kind) Singleton() bool {
	return k == KindSsoSettings || k == KindEnrollmentSettings
}

// Ref names another object that one object depends on. Required refs
// constrain apply ordering; soft refs only produce report warnings when the
// target is missing.
type Ref struct {
	Kind     Kind
	Name     string
	Required bool
}

// ID renders the kind/name pair used throughout graph bookkeeping.
func (r Ref) ID() string {
	return string(r.Kind) + "/" + r.Name
}

// ManagedObject is one desired (or observed) configuration entity. Field
// order is preserved from the input so that diffs and reports read in the
// order the author wrote them.
type ManagedObject struct {
	Kind Kind
	Name string

	// Absent marks an explicit tombstone: the object must be deleted.
	Absent bool

	// ApplyAfter holds explicit ordering hints supplied by the caller,
	// merged into the dependency graph as required edges.
	ApplyAfter []Ref

	order  []string
	fields map[string]FieldSpec
}

// New constructs an empty ManagedObject after validating kind and name.
func New(kind Kind, name string) (*ManagedObject, error) {
	if !kind.Valid() {
		return nil, jamferrors.NewValidationError(name, "", fmt.Sprintf("unknown kind %q", kind), nil)
	}
	if name == "" {
		return nil, jamferrors.NewValidationError(string(kind), "", "object name must not be empty", nil)
	}
	return &ManagedObject{
		Kind:   kind,
		Name:   name,
		fields: make(map[string]FieldSpec),
	}, nil
}

// ID renders the object's kind/name identity.
func (o *ManagedObject) ID() string {
	return string(o.Kind) + "/" + o.Name
}

// SetField validates the value against the kind's schema, canonicalizes it,
// and records it. Unknown fields and vocabulary violations fail with a
// ValidationError naming the object and field.
func (o *ManagedObject) SetField(name string, spec FieldSpec) error {
	schema := SchemaFor(o.Kind)
	fs, ok := schema.Field(name)
	if !ok {
		return jamferrors.NewValidationError(o.ID(), name, "unknown field", nil)
	}

	if spec.Mode == ModeValue {
		canonical, err := fs.Canonicalize(spec.Value)
		if err != nil {
			return jamferrors.NewValidationError(o.ID(), name, err.Error(), err)
		}
		spec.Value = canonical
	}

	if _, exists := o.fields[name]; !exists {
		o.order = append(o.order, name)
	}
	o.fields[name] = spec
	return nil
}

// Field returns the recorded spec for name.
func (o *ManagedObject) Field(name string) (FieldSpec, bool) {
	spec, ok := o.fields[name]
	return spec, ok
}

// FieldNames returns field names in input order.
func (o *ManagedObject) FieldNames() []string {
	return append([]string(nil), o.order...)
}

// ManagedFieldNames returns the names of fields that take part in diffing,
// in input order.
func (o *ManagedObject) ManagedFieldNames() []string {
	names := make([]string, 0, len(o.order))
	for _, name := range o.order {
		if o.fields[name].Managed() {
			names = append(names, name)
		}
	}
	return names
}

// Validate checks kind-level invariants that span multiple fields.
func (o *ManagedObject) Validate() error {
	schema := SchemaFor(o.Kind)

	for _, required := range schema.required {
		if o.Absent {
			break
		}
		spec, ok := o.fields[required]
		if !ok || spec.Mode != ModeValue {
			return jamferrors.NewValidationError(o.ID(), required, "required field missing", nil)
		}
	}

	if o.Absent && o.Kind.Singleton() {
		return jamferrors.NewValidationError(o.ID(), "", "singleton kinds cannot be deleted", nil)
	}

	if o.Kind == KindSsoSettings {
		if err := o.validateSsoUseFor(); err != nil {
			return err
		}
	}

	return nil
}

// validateSsoUseFor enforces the server rule that "jss" must be listed in
// use_for whenever enrollment or self_service single sign-on is enabled.
func (o *ManagedObject) validateSsoUseFor() error {
	spec, ok := o.fields["use_for"]
	if !ok || spec.Mode != ModeValue {
		return nil
	}
	services, ok := spec.Value.([]string)
	if !ok || len(services) == 0 {
		return nil
	}
	for _, service := range services {
		if service == "jss" {
			return nil
		}
	}
	return jamferrors.NewValidationError(o.ID(), "use_for", `"jss" must be included when enabling sso for other services`, nil)
}
