package object

// References extracts every cross-object dependency implied by the
// object's managed fields, in field order. The extraction is pure and
// schema-driven, which keeps the dependency resolver generic over kinds.
// Tombstoned objects carry no references.
func (o *ManagedObject) References() []Ref {
	if o.Absent {
		return nil
	}

	schema := SchemaFor(o.Kind)
	seen := make(map[string]bool)
	var refs []Ref

	add := func(fs FieldSchema, name string) {
		if name == "" {
			return
		}
		ref := Ref{Kind: fs.Ref, Name: name, Required: fs.RefRequired}
		if seen[ref.ID()] {
			return
		}
		seen[ref.ID()] = true
		refs = append(refs, ref)
	}

	for _, fieldName := range o.order {
		spec := o.fields[fieldName]
		if spec.Mode != ModeValue {
			continue
		}

		fs, ok := schema.Field(fieldName)
		if !ok || fs.Ref == "" {
			continue
		}

		switch value := spec.Value.(type) {
		case string:
			add(fs, value)
		case []string:
			for _, name := range value {
				add(fs, name)
			}
		case []ScriptRun:
			for _, run := range value {
				add(fs, run.Name)
			}
		}
	}

	return refs
}
