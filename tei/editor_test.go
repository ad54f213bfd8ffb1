package tei

import (
	"strings"
	"testing"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func newTestEditor(t *testing.T) *Editor {
	t.Helper()
	return NewEditor(zaptest.NewLogger(t))
}

func newObservedEditor() (*Editor, *observer.ObservedLogs) {
	core, logs := observer.New(zap.WarnLevel)
	return NewEditor(zap.New(core)), logs
}

func mustRoot(t *testing.T, xml string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xml); err != nil {
		t.Fatalf("ReadFromString: %v", err)
	}
	return doc.Root()
}

func TestUpsert_CreatesThenReuses(t *testing.T) {
	ed := newTestEditor(t)
	root := NewDocument().Root()

	n := Node{Tag: "title", Text: "Hello", Unique: map[string]string{"xml:lang": "en"}}
	first := ed.Upsert(root, n)
	second := ed.Upsert(root, n)
	if first == nil || first != second {
		t.Fatalf("expected same element on second upsert, got %p and %p", first, second)
	}
	if got := len(root.SelectElements("title")); got != 1 {
		t.Fatalf("expected 1 title, got %d", got)
	}
	if a := first.SelectAttr("xml:lang"); a == nil || a.Value != "en" {
		t.Fatalf("xml:lang not set: %v", first.Attr)
	}
}

func TestUpsert_StrictMatchCreatesSibling(t *testing.T) {
	ed := newTestEditor(t)
	root := NewDocument().Root()

	ed.Upsert(root, Node{Tag: "title", Text: "Hello", Unique: map[string]string{"xml:lang": "en"}})
	ed.Upsert(root, Node{Tag: "title", Text: "Bonjour", Unique: map[string]string{"xml:lang": "fr"}})
	titles := root.SelectElements("title")
	if len(titles) != 2 {
		t.Fatalf("expected 2 titles, got %d", len(titles))
	}
	if titles[1].Text() != "Bonjour" {
		t.Errorf("second title = %q", titles[1].Text())
	}
}

func TestUpsert_NotExcludesSubtitle(t *testing.T) {
	ed := newTestEditor(t)
	root := mustRoot(t, `<TEI xmlns="http://www.tei-c.org/ns/1.0"><title xml:lang="en" type="sub">Sub</title></TEI>`)

	main := ed.Upsert(root, Node{Tag: "title", Text: "Main", Unique: map[string]string{"xml:lang": "en"}, Not: map[string]string{"type": ""}})
	if main == nil || main.SelectAttr("type") != nil {
		t.Fatalf("main title must be a new element without type")
	}
	titles := root.SelectElements("title")
	if len(titles) != 2 || titles[0].Text() != "Sub" {
		t.Fatalf("subtitle must be kept intact, got %d titles", len(titles))
	}
}

func TestUpsert_ExtraAttributesDoNotMatch(t *testing.T) {
	ed := newTestEditor(t)
	root := NewDocument().Root()

	ed.Upsert(root, Node{Tag: "note", Unique: map[string]string{"type": "audience"}, Extra: map[string]string{"n": "2"}})
	el := ed.Upsert(root, Node{Tag: "note", Unique: map[string]string{"type": "audience"}, Extra: map[string]string{"n": "3"}})
	if got := len(root.SelectElements("note")); got != 1 {
		t.Fatalf("expected single note, got %d", got)
	}
	if el.SelectAttrValue("n", "") != "3" {
		t.Errorf("n = %q, want 3", el.SelectAttrValue("n", ""))
	}
}

func TestUpsert_RemoveIfEmpty(t *testing.T) {
	ed := newTestEditor(t)
	root := mustRoot(t, `<TEI><note type="commentary">old</note></TEI>`)

	if el := ed.Upsert(root, Node{Tag: "note", Unique: map[string]string{"type": "commentary"}, RemoveIfEmpty: true}); el != nil {
		t.Fatalf("expected nil for empty text")
	}
	if got := len(root.SelectElements("note")); got != 0 {
		t.Fatalf("existing element must be removed, %d left", got)
	}
	if el := ed.Upsert(root, Node{Tag: "note", Unique: map[string]string{"type": "description"}, RemoveIfEmpty: true}); el != nil {
		t.Fatalf("expected nil when nothing to create")
	}
	if got := len(root.ChildElements()); got != 0 {
		t.Fatalf("nothing must be created, got %d children", got)
	}
}

func TestUpsert_AmbiguousUsesFirstAndWarns(t *testing.T) {
	ed, logs := newObservedEditor()
	root := mustRoot(t, `<TEI><idno type="doi">a</idno><idno type="doi">b</idno></TEI>`)

	el := ed.Upsert(root, Node{Tag: "idno", Text: "c", Unique: map[string]string{"type": "doi"}})
	ids := root.SelectElements("idno")
	if el != ids[0] || ids[0].Text() != "c" || ids[1].Text() != "b" {
		t.Fatalf("first match must be updated: %q %q", ids[0].Text(), ids[1].Text())
	}
	if logs.Len() != 1 {
		t.Fatalf("expected one warning, got %d", logs.Len())
	}
}

func TestUpsert_ForceNewAndMatchText(t *testing.T) {
	ed := newTestEditor(t)
	root := NewDocument().Root()

	for range 2 {
		for _, kw := range []string{"alpha", "beta"} {
			ed.Upsert(root, Node{Tag: "term", Text: kw, Unique: map[string]string{"xml:lang": "en"}, MatchText: true})
		}
	}
	if got := len(root.SelectElements("term")); got != 2 {
		t.Fatalf("MatchText must keep terms unique, got %d", got)
	}

	ed.Upsert(root, Node{Tag: "term", Text: "alpha", Unique: map[string]string{"xml:lang": "en"}, ForceNew: true})
	if got := len(root.SelectElements("term")); got != 3 {
		t.Fatalf("ForceNew must create element, got %d", got)
	}
}

func TestUpsert_BeforeKeepsOrder(t *testing.T) {
	ed := newTestEditor(t)
	root := mustRoot(t, `<monogr><idno type="issn">1</idno><imprint/></monogr>`)

	ed.Upsert(root, Node{Tag: "editor", Text: "E", ForceNew: true, Before: []string{"imprint"}})
	var tags []string
	for _, c := range root.ChildElements() {
		tags = append(tags, c.Tag)
	}
	if strings.Join(tags, ",") != "idno,editor,imprint" {
		t.Fatalf("unexpected order: %v", tags)
	}
}

func TestUpsert_KeepsScopePrefix(t *testing.T) {
	ed := newTestEditor(t)
	root := mustRoot(t, `<tei:TEI xmlns:tei="http://www.tei-c.org/ns/1.0"><tei:text/></tei:TEI>`)

	text := ed.Ensure(root, "text")
	if text == nil || text.Space != "tei" {
		t.Fatalf("existing prefixed element must be found")
	}
	body := ed.Ensure(text, "body")
	if body.FullTag() != "tei:body" {
		t.Errorf("new element tag = %s, want tei:body", body.FullTag())
	}
}

func TestFind(t *testing.T) {
	ed := newTestEditor(t)
	root := mustRoot(t, `<TEI xmlns="http://www.tei-c.org/ns/1.0" xmlns:x="urn:other">
<a><idno type="doi">1</idno><idno>2</idno><x:idno type="doi">3</x:idno></a>
<idno type="arxiv">4</idno></TEI>`)

	tests := []struct {
		name string
		m    Match
		want []string
	}{
		{"by tag", Match{Tag: "idno"}, []string{"1", "2", "4"}},
		{"presence", Match{Tag: "idno", Attrs: map[string]string{"type": "whatever"}}, []string{"1", "4"}},
		{"strict", Match{Tag: "idno", Attrs: map[string]string{"type": "doi"}, Strict: true}, []string{"1"}},
		{"not any value", Match{Tag: "idno", Not: map[string]string{"type": ""}}, []string{"2"}},
		{"not value", Match{Tag: "idno", Not: map[string]string{"type": "doi"}}, []string{"2", "4"}},
		{"none", Match{Tag: "title"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, el := range ed.Find(root, tt.m) {
				got = append(got, el.Text())
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("Find() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRemove(t *testing.T) {
	ed := newTestEditor(t)
	root := mustRoot(t, `<TEI><title>a</title><title type="sub">b</title><x><title>c</title></x></TEI>`)

	if n := ed.Remove(root, Match{Tag: "title", Not: map[string]string{"type": ""}}); n != 2 {
		t.Fatalf("Remove() = %d, want 2", n)
	}
	left := ed.Find(root, Match{Tag: "title"})
	if len(left) != 1 || left[0].Text() != "b" {
		t.Fatalf("unexpected leftovers: %d", len(left))
	}
	if n := ed.Remove(root, Match{Tag: "author"}); n != 0 {
		t.Fatalf("Remove() on absent tag = %d", n)
	}
}
