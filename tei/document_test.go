package tei

import (
	"bytes"
	"strings"
	"testing"

	"github.com/beevik/etree"
)

func countElements(el *etree.Element) int {
	n := 1
	for _, c := range el.ChildElements() {
		n += countElements(c)
	}
	return n
}

func TestSkeleton_Idempotent(t *testing.T) {
	ed := newTestEditor(t)
	doc := NewDocument()

	s := ed.Skeleton(doc)
	if s.ListOrg == nil || s.Imprint == nil || s.TextClass == nil {
		t.Fatal("skeleton sections missing")
	}
	if s.ListOrg.SelectAttrValue("type", "") != "structures" {
		t.Errorf("listOrg type = %q", s.ListOrg.SelectAttrValue("type", ""))
	}
	before := countElements(doc.Root())

	again := ed.Skeleton(doc)
	if countElements(doc.Root()) != before {
		t.Fatalf("second skeleton changed document: %d -> %d", before, countElements(doc.Root()))
	}
	if again.BiblStruct != s.BiblStruct {
		t.Error("skeleton must reuse existing containers")
	}
	if got := s.Imprint.GetPath(); got != "/TEI/text/body/listBibl/biblFull/sourceDesc/biblStruct/monogr/imprint" {
		t.Errorf("imprint path = %s", got)
	}
}

func TestSkeleton_FillsPartialDocumentInOrder(t *testing.T) {
	ed := newTestEditor(t)
	doc, err := Read(strings.NewReader(`<?xml version="1.0"?>
<TEI xmlns="http://www.tei-c.org/ns/1.0"><text><body><listBibl><biblFull>
<editionStmt/><sourceDesc/></biblFull></listBibl></body></text></TEI>`))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	s := ed.Skeleton(doc)

	var tags []string
	for _, c := range s.BiblFull.ChildElements() {
		tags = append(tags, c.Tag)
	}
	want := "titleStmt,editionStmt,publicationStmt,notesStmt,sourceDesc,profileDesc"
	if strings.Join(tags, ",") != want {
		t.Fatalf("biblFull children = %v, want %s", tags, want)
	}
}

func TestRead_RejectsForeignRoot(t *testing.T) {
	if _, err := Read(strings.NewReader(`<html/>`)); err == nil {
		t.Fatal("expected error for non TEI root")
	}
	if _, err := Read(strings.NewReader(``)); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestWriteRoundTrip(t *testing.T) {
	ed := newTestEditor(t)
	doc := NewDocument()
	s := ed.Skeleton(doc)
	ed.Upsert(s.TitleStmt, Node{Tag: "title", Text: "Café", Unique: map[string]string{"xml:lang": "fr"}})

	var buf bytes.Buffer
	if err := Write(doc, &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`<?xml version="1.0" encoding="UTF-8"?>`, `xmlns="http://www.tei-c.org/ns/1.0"`, `xmlns:hal="http://hal.archives-ouvertes.fr/"`, `<title xml:lang="fr">Café</title>`} {
		if !strings.Contains(out, want) {
			t.Errorf("output misses %s", want)
		}
	}

	back, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	titles := ed.Find(back.Root(), Match{Tag: "title", Attrs: map[string]string{"xml:lang": "fr"}, Strict: true})
	if len(titles) != 1 || titles[0].Text() != "Café" {
		t.Fatalf("title lost in round trip")
	}
}

func TestDump(t *testing.T) {
	root := mustRoot(t, `<TEI xmlns="http://www.tei-c.org/ns/1.0"><title xml:lang="en">T</title></TEI>`)
	want := "TEI\n  title xml:lang=\"en\"\n    text: \"T\"\n"
	if got := Dump(root); got != want {
		t.Errorf("Dump() = %q, want %q", got, want)
	}
}

func TestRead_LegacyEncoding(t *testing.T) {
	// "Étude" in ISO-8859-1
	src := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n<TEI xmlns=\"http://www.tei-c.org/ns/1.0\"><title>\xc9tude</title></TEI>")
	doc, err := Read(bytes.NewReader(src))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got := doc.FindElement("//title").Text(); got != "Étude" {
		t.Errorf("title = %q, want %q", got, "Étude")
	}
}

func TestRead_NormalizesDeclaration(t *testing.T) {
	src := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n<TEI xmlns=\"http://www.tei-c.org/ns/1.0\"/>")
	doc, err := Read(bytes.NewReader(src))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	var buf bytes.Buffer
	if err := Write(doc, &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), `encoding="UTF-8"`) {
		t.Errorf("declaration not normalized:\n%s", buf.String())
	}
}
