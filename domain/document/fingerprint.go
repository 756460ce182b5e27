package document

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sort"
)

// Fingerprinted is a Document plus its content-derived uid. The uid is a
// pure function of (content, metadata): two documents with identical content
// and metadata always share a uid, and any difference in either yields a
// different uid.
type Fingerprinted struct {
	doc Document
	uid string
}

// Fingerprint computes the uid for a document.
//
// The hash input covers the content and every metadata pair. Metadata keys
// are processed in sorted order and every field is length-prefixed, so map
// iteration order cannot change the result and adjacent fields cannot be
// confused ("ab"+"c" vs "a"+"bc").
func Fingerprint(doc Document) Fingerprinted {
	h := sha256.New()

	writeField := func(s string) {
		var n [8]byte
		binary.BigEndian.PutUint64(n[:], uint64(len(s)))
		h.Write(n[:])
		h.Write([]byte(s))
	}

	writeField(doc.content)

	keys := make([]string, 0, len(doc.metadata))
	for k := range doc.metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		writeField(k)
		writeField(doc.metadata[k])
	}

	return Fingerprinted{
		doc: doc,
		uid: hex.EncodeToString(h.Sum(nil)),
	}
}

// FingerprintAll fingerprints every document in order.
func FingerprintAll(docs []Document) []Fingerprinted {
	out := make([]Fingerprinted, len(docs))
	for i, d := range docs {
		out[i] = Fingerprint(d)
	}
	return out
}

// UID returns the content-derived identifier.
func (f Fingerprinted) UID() string { return f.uid }

// Document returns the underlying document.
func (f Fingerprinted) Document() Document { return f.doc }

// Dedupe removes duplicate uids within a single batch. The first occurrence
// of a uid is kept and later occurrences are dropped; surviving order matches
// input order. Deduplication never spans batches or runs.
func Dedupe(batch []Fingerprinted) []Fingerprinted {
	seen := make(map[string]struct{}, len(batch))
	out := make([]Fingerprinted, 0, len(batch))
	for _, f := range batch {
		if _, ok := seen[f.uid]; ok {
			continue
		}
		seen[f.uid] = struct{}{}
		out = append(out, f)
	}
	return out
}
