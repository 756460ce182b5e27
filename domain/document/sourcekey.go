package document

// SourceKey derives the group id that scopes incremental cleanup: the set of
// documents sharing a group id is treated as the complete current content of
// that source. The zero value assigns no group to any document.
type SourceKey struct {
	field string
	fn    func(Document) string
}

// SourceKeyField groups documents by a fixed metadata key.
func SourceKeyField(name string) SourceKey {
	return SourceKey{field: name}
}

// SourceKeyFunc groups documents by an arbitrary function. Returning ""
// means the document has no group.
func SourceKeyFunc(fn func(Document) string) SourceKey {
	return SourceKey{fn: fn}
}

// IsZero reports whether no assignment rule is configured.
func (k SourceKey) IsZero() bool {
	return k.field == "" && k.fn == nil
}

// Resolve returns the group id for a document, or "" when the document does
// not resolve to a group.
func (k SourceKey) Resolve(doc Document) string {
	switch {
	case k.fn != nil:
		return k.fn(doc)
	case k.field != "":
		return doc.Meta(k.field)
	default:
		return ""
	}
}
