package document

import "testing"

func TestNew_CopiesMetadata(t *testing.T) {
	meta := map[string]string{MetaSource: "a.txt"}
	doc := New("content", meta)

	meta[MetaSource] = "mutated"
	if doc.Source() != "a.txt" {
		t.Error("document should not observe caller mutation of the input map")
	}

	out := doc.Metadata()
	out[MetaSource] = "mutated"
	if doc.Source() != "a.txt" {
		t.Error("document should not observe mutation of a returned copy")
	}
}

func TestDocument_Accessors(t *testing.T) {
	doc := New("body", map[string]string{
		MetaSource: "docs/guide.md",
		MetaTitle:  "Guide",
		"lang":     "en",
	})

	if doc.Content() != "body" {
		t.Errorf("Content() = %q", doc.Content())
	}
	if doc.Source() != "docs/guide.md" {
		t.Errorf("Source() = %q", doc.Source())
	}
	if doc.Title() != "Guide" {
		t.Errorf("Title() = %q", doc.Title())
	}
	if doc.Meta("lang") != "en" {
		t.Errorf("Meta(lang) = %q", doc.Meta("lang"))
	}
	if doc.Meta("missing") != "" {
		t.Errorf("Meta(missing) = %q, want empty", doc.Meta("missing"))
	}
}
