package snapshot

import (
	"bytes"
	"errors"
	"testing"

	"github.com/yndnr/rolodex/internal/core/domain"
	"github.com/yndnr/rolodex/internal/core/service"
	"github.com/yndnr/rolodex/internal/storage/memory"
)

func sampleDocument(t *testing.T) *Document {
	t.Helper()
	doc := NewDocument()
	doc.MaxLength = 10
	doc.Data["John Smith"] = &domain.Record{
		Emails:  []string{"john@x.com"},
		Socials: []string{"@johnny"},
	}
	for _, tok := range []string{"Smith", "john@x.com", "@johnny", "John Smith"} {
		if err := doc.Index.Insert(tok, "John Smith"); err != nil {
			t.Fatalf("Insert(%q): %v", tok, err)
		}
	}
	return doc
}

func TestEncodeDecode(t *testing.T) {
	doc := sampleDocument(t)

	for _, pretty := range []bool{false, true} {
		b, err := Encode(doc, pretty)
		if err != nil {
			t.Fatalf("Encode(pretty=%v): %v", pretty, err)
		}
		if got := bytes.Contains(b, []byte("\n\t")); got != pretty {
			t.Fatalf("Encode(pretty=%v) indented = %v", pretty, got)
		}

		back, err := Decode(b)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if back.MaxLength != 10 {
			t.Fatalf("MaxLength = %d, want 10", back.MaxLength)
		}
		if got := back.Data["John Smith"].Socials; len(got) != 1 || got[0] != "@johnny" {
			t.Fatalf("Socials = %v, want [@johnny]", got)
		}
		if got := back.Index.SearchPrefix("@j", 10); len(got) != 1 || got[0] != "John Smith" {
			t.Fatalf("SearchPrefix(@j) = %v, want [John Smith]", got)
		}
		if back.Index.Len() != doc.Index.Len() {
			t.Fatalf("Index.Len() = %d, want %d", back.Index.Len(), doc.Index.Len())
		}
	}
}

func TestEncode_EmptyDocument(t *testing.T) {
	b, err := Encode(NewDocument(), false)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := `{"maxLength":0,"data":{},"index":{"nn":0}}`
	if string(b) != want {
		t.Fatalf("Encode(empty) = %s, want %s", b, want)
	}
}

func TestDecode_MissingSections(t *testing.T) {
	for _, in := range []string{`{}`, `{"maxLength":0,"data":null,"index":null}`, `{"maxLength":0,"data":{},"index":{}}`} {
		doc, err := Decode([]byte(in))
		if err != nil {
			t.Fatalf("Decode(%s): %v", in, err)
		}
		if doc.Data == nil || doc.Index == nil {
			t.Fatalf("Decode(%s) left nil sections", in)
		}
		if doc.Index.Len() != 0 {
			t.Fatalf("Decode(%s) Index.Len() = %d, want 0", in, doc.Index.Len())
		}
	}
}

func TestDecode_Invalid(t *testing.T) {
	for _, in := range []string{
		`not json`,
		`{"maxLength":-1}`,
		`{"index":{"ab":{"nn":1,"results":["k"]},"nn":1}}`,
		`{"data":{"k":{"emails":"x"}}}`,
	} {
		if _, err := Decode([]byte(in)); !errors.Is(err, ErrInvalidDocument) {
			t.Fatalf("Decode(%s) error = %v, want ErrInvalidDocument", in, err)
		}
	}
}

// The JavaScript tool leaves removed records as null data entries and
// detached trie children as null members, and never updates the
// top-level maxLength.
const legacyDocument = `{"maxLength":0,"data":{"John Smith":{"socials":["@johnny"],"emails":["john@x.com"]},"Jane Doe":null},` +
	`"index":{"nn":4,"@":{"nn":1,"j":{"nn":1,"o":{"nn":1,"h":{"nn":1,"n":{"nn":1,"n":{"nn":1,"y":{"nn":1,"results":["John Smith"]}}}}}}},` +
	`"j":{"nn":1,"o":{"nn":1,"h":{"nn":1,"n":{"nn":1,"@":{"nn":1,"x":{"nn":1,".":{"nn":1,"c":{"nn":1,"o":{"nn":1,"m":{"nn":1,"results":["John Smith"]}}}}}}}}}},` +
	`"S":{"nn":1,"m":{"nn":1,"i":{"nn":1,"t":{"nn":1,"h":{"nn":1,"results":["John Smith"]}}}}},` +
	`"J":{"nn":1,"o":{"nn":1,"h":{"nn":1,"n":{"nn":1," ":{"nn":1,"S":{"nn":1,"m":{"nn":1,"i":{"nn":1,"t":{"nn":1,"h":{"nn":1,"results":["John Smith"]}}}}}}}}},"a":null},` +
	`"D":null}}`

func TestDecode_LegacyDocumentAfterRemoval(t *testing.T) {
	doc, err := Decode([]byte(legacyDocument))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if err := doc.Index.Verify(); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if rec, ok := doc.Data["Jane Doe"]; !ok || rec != nil {
		t.Fatalf("Data[Jane Doe] = %v, %v, want nil, true", rec, ok)
	}

	store := memory.New()
	store.Restore(doc.Data, doc.MaxLength)
	svc := service.NewIndexService(doc.Index, store)

	if svc.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", svc.Len())
	}
	for _, q := range []string{"Jo", "@jo", "Smith", "john@"} {
		got := svc.Search(q, 10)
		if len(got) != 1 || got[0].Name != "John Smith" {
			t.Fatalf("Search(%q) = %v, want [John Smith]", q, got)
		}
	}
	for _, q := range []string{"Ja", "D"} {
		if got := svc.Search(q, 10); len(got) != 0 {
			t.Fatalf("Search(%q) = %v, want none", q, got)
		}
	}

	b, err := Encode(doc, false)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if bytes.Contains(b, []byte(`"a":null`)) || bytes.Contains(b, []byte(`"D":null`)) {
		t.Fatalf("re-encoded index kept null members: %s", b)
	}
}
