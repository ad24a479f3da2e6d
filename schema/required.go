package schema

// hasRequiredFrom answers whether values of root can ever be incomplete:
// a required field anywhere on a message-typed path from root, or an
// extensible message on such a path (extensions may declare required
// fields the schema never sees). The schema graph may be mutually
// recursive; a node already on the current path contributes nothing new,
// so the walk skips it rather than recursing forever.
func (a *Arena) hasRequiredFrom(root MessageRef) bool {
	seen := make(map[MessageRef]bool)
	var walk func(ref MessageRef) bool
	walk = func(ref MessageRef) bool {
		if ref == RefNone || seen[ref] {
			return false
		}
		seen[ref] = true
		m := a.messages[ref]
		if m.IsExtensible() {
			return true
		}
		for _, f := range m.Fields {
			if f.Label == LabelRequired {
				return true
			}
			if f.IsMessageKind() && walk(f.TypeRef) {
				return true
			}
			if f.Kind == KindMap && walk(f.MapValueRef) {
				return true
			}
		}
		return false
	}
	return walk(root)
}

// resolveRequired stamps the transitive required-field answer onto every
// message and every message-typed field. Each root gets its own walk: a
// shared memo would leak the provisional false that cycle members see
// mid-walk.
func (a *Arena) resolveRequired() {
	for ref, m := range a.messages {
		m.hasRequired = a.hasRequiredFrom(MessageRef(ref))
	}
	for _, m := range a.messages {
		for _, f := range m.Fields {
			switch {
			case f.IsMessageKind():
				f.HasRequired = a.hasRequiredFrom(f.TypeRef)
			case f.Kind == KindMap:
				f.HasRequired = a.hasRequiredFrom(f.MapValueRef)
			}
		}
	}
}
