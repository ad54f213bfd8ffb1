package mapper

import (
	"context"
	"testing"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"halc/record"
	"halc/tei"
)

type fakeResolver struct {
	journals   map[string]string
	structures map[string]string
	calls      int
}

func (f *fakeResolver) JournalID(_ context.Context, name string) (string, bool) {
	f.calls++
	id, ok := f.journals[name]
	return id, ok
}

func (f *fakeResolver) StructureID(_ context.Context, name string) (string, bool) {
	f.calls++
	id, ok := f.structures[name]
	return id, ok
}

func newTestMapper(t *testing.T, res Resolver) *Mapper {
	t.Helper()
	log := zaptest.NewLogger(t)
	return New(tei.NewEditor(log), res, log)
}

func newObservedMapper(res Resolver) (*Mapper, *observer.ObservedLogs) {
	core, logs := observer.New(zap.WarnLevel)
	log := zap.New(core)
	return New(tei.NewEditor(log), res, log), logs
}

func newScope() *etree.Element {
	return etree.NewDocument().CreateElement("scope")
}

func attrValue(el *etree.Element, key string) string {
	if a := el.SelectAttr(key); a != nil {
		return a.Value
	}
	return ""
}

func TestTitles_Multilingual(t *testing.T) {
	m := newTestMapper(t, nil)
	scope := newScope()

	titles := record.NewMultilingual("en", "A title", "fr", "Un titre")
	subtitles := record.NewMultilingual("en", "A subtitle", "fr", "Un sous-titre")
	for range 2 {
		if got := m.Titles(scope, titles, subtitles, false, false); len(got) != 4 {
			t.Fatalf("expected 4 elements, got %d", len(got))
		}
	}
	all := scope.SelectElements("title")
	if len(all) != 4 {
		t.Fatalf("expected 4 titles after second application, got %d", len(all))
	}
	if attrValue(all[1], "xml:lang") != "fr" || all[1].Text() != "Un titre" {
		t.Errorf("unexpected second title: %s", tei.Dump(all[1]))
	}
	if attrValue(all[3], "type") != "sub" {
		t.Errorf("expected subtitle last, got %s", tei.Dump(all[3]))
	}
}

func TestTitles_PrecedeAuthors(t *testing.T) {
	m := newTestMapper(t, nil)
	scope := newScope()

	m.Titles(scope, record.NewMultilingual("en", "A title"), record.Multilingual{}, false, false)
	scope.CreateElement("author")
	m.Titles(scope, record.NewMultilingual("de", "Ein Titel"), record.NewMultilingual("de", "Untertitel"), false, false)

	var tags []string
	for _, el := range scope.ChildElements() {
		tags = append(tags, el.Tag)
	}
	want := []string{"title", "title", "title", "author"}
	if len(tags) != len(want) {
		t.Fatalf("children = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Fatalf("children = %v, want %v", tags, want)
		}
	}
}

func TestTitles_ImplicitDefaultsToEnglish(t *testing.T) {
	m, logs := newObservedMapper(nil)
	scope := newScope()

	got := m.Titles(scope, record.NewImplicit("Plain"), record.Multilingual{}, false, false)
	if len(got) != 1 {
		t.Fatalf("expected 1 title, got %d", len(got))
	}
	if attrValue(got[0], "xml:lang") != "en" {
		t.Errorf("expected en, got %q", attrValue(got[0], "xml:lang"))
	}
	if n := logs.FilterMessage("No language specified, defaulting to English").Len(); n != 1 {
		t.Errorf("expected exactly one warning, got %d", n)
	}
}

func TestTitles_ClearKeepsOtherTitles(t *testing.T) {
	m := newTestMapper(t, nil)
	scope := newScope()
	scope.CreateElement("title").CreateAttr("level", "j")

	m.Titles(scope, record.NewMultilingual("en", "Old"), record.Multilingual{}, false, false)
	m.Titles(scope, record.NewMultilingual("fr", "Nouveau"), record.Multilingual{}, true, false)

	titles := scope.SelectElements("title")
	if len(titles) != 2 {
		t.Fatalf("expected journal title and new title, got %d", len(titles))
	}
	if titles[1].Text() != "Nouveau" {
		t.Errorf("unexpected title %q", titles[1].Text())
	}
}

func TestAuthors(t *testing.T) {
	m, logs := newObservedMapper(nil)
	scope := newScope()
	authors := []record.Author{
		{First: "Ada", Last: "Lovelace", ORCID: "0000-0001", Affiliation: []string{"lab"}, AffiliationHAL: []string{"#struct-42"}},
		{First: "Charles", Last: "Babbage", Role: "crp", Middle: "B."},
		{First: "Nobody"},
	}
	for range 2 {
		m.Authors(scope, authors, false)
	}

	found := scope.SelectElements("author")
	if len(found) != 2 {
		t.Fatalf("expected 2 authors, got %d", len(found))
	}
	if attrValue(found[0], "role") != "aut" || attrValue(found[1], "role") != "crp" {
		t.Errorf("unexpected roles %q %q", attrValue(found[0], "role"), attrValue(found[1], "role"))
	}
	idno := found[0].SelectElement("idno")
	if idno == nil || attrValue(idno, "type") != IDTypeORCID {
		t.Fatalf("missing orcid: %s", tei.Dump(found[0]))
	}
	refs := []string{}
	for _, a := range found[0].SelectElements("affiliation") {
		refs = append(refs, attrValue(a, "ref"))
	}
	if len(refs) != 2 || refs[0] != "#localStruct-lab" || refs[1] != "#struct-42" {
		t.Errorf("unexpected affiliations %v", refs)
	}
	pers := found[1].SelectElement("persName")
	if names := pers.ChildElements(); len(names) != 3 || names[1].Text() != "B." || names[2].Tag != "surname" {
		t.Errorf("unexpected persName: %s", tei.Dump(pers))
	}
	// missing role twice, skipped author twice
	if logs.Len() != 4 {
		t.Errorf("expected 4 warnings, got %d", logs.Len())
	}
}

func TestNotes_Flags(t *testing.T) {
	m, logs := newObservedMapper(nil)
	scope := newScope()

	m.Notes(scope, &record.Notes{Audience: "National", Invited: "yes", Peer: "maybe", Comment: "text"}, false)
	want := map[string]string{"audience": "3", "invited": "1", "popular": "0", "peer": "1", "proceedings": "0"}
	for _, n := range scope.SelectElements("note") {
		typ := attrValue(n, "type")
		if w, ok := want[typ]; ok && attrValue(n, "n") != w {
			t.Errorf("%s: expected %s, got %s", typ, w, attrValue(n, "n"))
		}
	}
	if logs.Len() != 1 {
		t.Errorf("expected one warning for unknown value, got %d", logs.Len())
	}
	if len(scope.SelectElements("note")) != 6 {
		t.Errorf("expected 5 flags and commentary, got %d", len(scope.SelectElements("note")))
	}

	// absent notes keep existing values
	m.Notes(scope, nil, false)
	for _, n := range scope.SelectElements("note") {
		if attrValue(n, "type") == "audience" && attrValue(n, "n") != "3" {
			t.Errorf("audience was overwritten: %s", attrValue(n, "n"))
		}
	}

	// notes without text keep commentary
	m.Notes(scope, &record.Notes{Invited: "no"}, false)
	var comments []string
	for _, n := range scope.SelectElements("note") {
		if attrValue(n, "type") == "commentary" {
			comments = append(comments, n.Text())
		}
	}
	if len(comments) != 1 || comments[0] != "text" {
		t.Errorf("commentary must survive, got %v", comments)
	}

	m.Notes(scope, &record.Notes{}, true)
	for _, n := range scope.SelectElements("note") {
		if attrValue(n, "type") == "commentary" {
			t.Errorf("commentary must be cleared")
		}
	}
}

func TestParseBinary(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"oui", "1", true},
		{"Yes", "1", true},
		{"true", "1", true},
		{"1", "1", true},
		{"non", "0", true},
		{"No", "0", true},
		{"false", "0", true},
		{"0", "0", true},
		{"perhaps", "", false},
	}
	for _, tt := range tests {
		got, ok := parseBinary(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseBinary(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestResolveDocType(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"article", "ART", true},
		{"Journal Article", "ART", true},
		{"conferencePaper", "COMM", true},
		{"book", "OUV", true},
		{"prepublication", "UNDEFINED", true},
		{"preprint", "PREPRINT", true},
		{"memclic", "MEMLIC", true},
		{"software", "SOFTWARE", true},
		{"something else", "ART", false},
	}
	for _, tt := range tests {
		got, ok := ResolveDocType(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ResolveDocType(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
	for code, aliases := range docTypes {
		for _, a := range aliases {
			if got, _ := ResolveDocType(a); got != code {
				t.Errorf("alias %q maps to %q, want %q", a, got, code)
			}
		}
	}
}

func TestDocType(t *testing.T) {
	m, logs := newObservedMapper(nil)
	scope := newScope()

	if got := m.DocType(scope, "", false); got != nil {
		t.Fatalf("expected nothing for empty type")
	}
	m.DocType(scope, "unheard of", false)
	m.DocType(scope, "COMM", false)
	codes := scope.SelectElements("classCode")
	if len(codes) != 1 || attrValue(codes[0], "n") != "COMM" {
		t.Fatalf("expected singleton classCode with COMM, got %d", len(codes))
	}
	if logs.Len() != 1 {
		t.Errorf("expected exactly one warning, got %d", logs.Len())
	}
}

func TestStructType(t *testing.T) {
	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"Université de Lyon", "institution", true},
		{"École Centrale", "institution", true},
		{"Laboratoire de Mécanique", "institution", true},
		{"Theory Team", "researchteam", true},
		{"CNRS", "institution", false},
	}
	for _, tt := range tests {
		got, ok := StructType(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("StructType(%q) = %q, %v; want %q, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCountry(t *testing.T) {
	tests := []struct {
		in   string
		code string
		ok   bool
	}{
		{"FR", "FR", true},
		{"fr", "FR", true},
		{"France", "FR", true},
		{"FX", "FR", true},
		{"Allemagne", "DE", true},
		{"united states", "US", true},
		{"Atlantis", "", false},
	}
	for _, tt := range tests {
		code, _, ok := Country(tt.in)
		if code != tt.code || ok != tt.ok {
			t.Errorf("Country(%q) = %q, %v; want %q, %v", tt.in, code, ok, tt.code, tt.ok)
		}
	}
	for _, addr := range []string{"1 rue de la Paix, 75000 Paris, France", "CNRS, France, 38000 Grenoble"} {
		if code, _, ok := countryFromAddress(addr); !ok || code != "FR" {
			t.Errorf("countryFromAddress(%q): got %q, %v", addr, code, ok)
		}
	}
}

func TestStructures(t *testing.T) {
	m := newTestMapper(t, nil)
	scope := newScope()
	structures := []record.Structure{
		{ID: "lab", Name: "Laboratoire X", Acronym: "LX", URL: "https://lx.example", Address: &record.Address{Line: "Bordeaux, France"}},
		{ID: "2", Name: "Some team"},
	}
	for range 2 {
		m.Structures(scope, structures, false)
	}
	orgs := scope.SelectElements("org")
	if len(orgs) != 2 {
		t.Fatalf("expected 2 orgs, got %d", len(orgs))
	}
	if attrValue(orgs[0], "xml:id") != "localStruct-lab" || attrValue(orgs[1], "type") != "researchteam" {
		t.Errorf("unexpected orgs: %s", tei.Dump(scope))
	}
	if names := orgs[0].SelectElements("orgName"); len(names) != 2 || attrValue(names[1], "type") != "acronym" {
		t.Errorf("unexpected org names: %s", tei.Dump(orgs[0]))
	}
	country := orgs[0].FindElement("desc/address/country")
	if country == nil || attrValue(country, "key") != "FR" {
		t.Errorf("country not found: %s", tei.Dump(orgs[0]))
	}
	if ref := orgs[0].FindElement("desc/ref"); ref == nil || attrValue(ref, "target") != "https://lx.example" {
		t.Errorf("url not written")
	}
}

func TestIdentifiers_ResolvesJournal(t *testing.T) {
	res := &fakeResolver{journals: map[string]string{"Journal of Things": "123"}}
	m, logs := newObservedMapper(res)
	scope := newScope()
	scope.CreateElement("imprint")

	m.Identifiers(context.Background(), scope, &record.Identifiers{Journal: "Journal of Things", ISSN: "0317-8471", ISBN: "123"}, false)

	children := scope.ChildElements()
	var order []string
	for _, c := range children {
		order = append(order, c.Tag+"/"+attrValue(c, "type")+attrValue(c, "level"))
	}
	want := []string{"idno/isbn", "idno/halJournalId", "idno/issn", "title/j", "imprint/"}
	if len(order) != len(want) {
		t.Fatalf("unexpected children %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("unexpected children %v, want %v", order, want)
		}
	}
	if res.calls != 1 {
		t.Errorf("expected one resolver call, got %d", res.calls)
	}
	// invalid ISBN is still written
	if logs.Len() != 1 {
		t.Errorf("expected one warning, got %d", logs.Len())
	}
}

func TestLicenseURL(t *testing.T) {
	tests := map[string]string{
		"by":                          "https://creativecommons.org/licenses/by/",
		"CC-BY-NC":                    "https://creativecommons.org/licenses/by-nc/",
		"cc by sa":                    "https://creativecommons.org/licenses/by-sa/",
		"https://example.org/licence": "https://example.org/licence",
	}
	for in, want := range tests {
		if got := LicenseURL(in); got != want {
			t.Errorf("LicenseURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExtRef_ClearsPerType(t *testing.T) {
	m := newTestMapper(t, nil)
	scope := newScope()
	scope.CreateElement("monogr").CreateElement("idno").CreateAttr("type", "issn")

	m.ExtRef(scope, &record.ExtRef{IDs: map[string]string{"doi": "10.1000/xyz", "arxiv": "2101.00001"}, Links: []string{"https://a", "https://b"}}, false)
	m.ExtRef(scope, &record.ExtRef{IDs: map[string]string{"doi": "10.1000/abc"}}, true)

	if got := len(scope.SelectElements("idno")); got != 1 {
		t.Errorf("expected only new doi, got %d", got)
	}
	if got := len(scope.SelectElements("ref")); got != 0 {
		t.Errorf("expected links removed, got %d", got)
	}
	if scope.FindElement("monogr/idno") == nil {
		t.Errorf("monogr identifiers must survive")
	}
}

func TestLanguageAndKeywords(t *testing.T) {
	m, logs := newObservedMapper(nil)
	scope := newScope()
	textClass := scope.CreateElement("textClass")

	m.Language(scope, "", false)
	m.Language(scope, "", false)
	if logs.Len() != 1 {
		t.Errorf("expected single defaulting warning, got %d", logs.Len())
	}
	m.Language(scope, "fr", false)
	langs := scope.FindElements("langUsage/language")
	if len(langs) != 1 || attrValue(langs[0], "ident") != "fr" {
		t.Fatalf("unexpected language: %s", tei.Dump(scope))
	}
	if scope.ChildElements()[0].Tag != "langUsage" {
		t.Errorf("langUsage must precede textClass")
	}

	textClass.CreateElement("classCode")
	kw := record.NewMultilingual("en", "one", "en", "two", "fr", "un")
	for range 2 {
		m.Keywords(textClass, kw, false)
	}
	terms := textClass.FindElements("keywords/term")
	if len(terms) != 3 {
		t.Fatalf("expected 3 terms, got %d", len(terms))
	}
	if textClass.ChildElements()[0].Tag != "keywords" {
		t.Errorf("keywords must precede classCode")
	}
}

func TestCodes_ClearKeepsTypology(t *testing.T) {
	m := newTestMapper(t, nil)
	scope := newScope()
	m.DocType(scope, "article", false)
	m.Codes(scope, &record.Codes{ACM: "F.2", HalDomains: []string{"math", "info"}}, false)
	if got := len(scope.SelectElements("classCode")); got != 4 {
		t.Fatalf("expected 4 codes, got %d", got)
	}
	m.Codes(scope, nil, true)
	codes := scope.SelectElements("classCode")
	if len(codes) != 1 || attrValue(codes[0], "scheme") != "halTypology" {
		t.Errorf("typology must survive clearing: %s", tei.Dump(scope))
	}
}

func TestConferenceAndEditors(t *testing.T) {
	m := newTestMapper(t, nil)
	monogr := newScope()
	monogr.CreateElement("imprint")

	conf := &record.Conference{Title: "Conf", Start: "2024-01-01", Location: "Lyon", Country: "France", Organizers: []string{"A", "B"}}
	for range 2 {
		m.Conference(monogr, conf, false)
		m.Editors(monogr, []string{"E1", "E2"}, false)
	}
	var order []string
	for _, c := range monogr.ChildElements() {
		order = append(order, c.Tag)
	}
	want := []string{"meeting", "respStmt", "editor", "editor", "imprint"}
	if len(order) != len(want) {
		t.Fatalf("unexpected monogr children %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("unexpected monogr children %v, want %v", order, want)
		}
	}
	if names := monogr.FindElements("respStmt/name"); len(names) != 2 {
		t.Errorf("expected 2 organizers, got %d", len(names))
	}
	if c := monogr.FindElement("meeting/country"); c == nil || attrValue(c, "key") != "FR" {
		t.Errorf("meeting country missing")
	}
}

func TestStampsAndImprint(t *testing.T) {
	m := newTestMapper(t, nil)
	biblFull := newScope()
	biblFull.CreateElement("titleStmt")
	biblFull.CreateElement("notesStmt")

	m.Stamps(biblFull, []string{"LAB", "UNIV"}, false)
	m.Stamps(biblFull, []string{"LAB"}, false)
	if biblFull.ChildElements()[1].Tag != "seriesStmt" {
		t.Fatalf("seriesStmt must precede notesStmt")
	}
	if got := len(biblFull.FindElements("seriesStmt/idno")); got != 2 {
		t.Errorf("expected 2 stamps, got %d", got)
	}

	imprint := newScope()
	info := &record.InfoDoc{Publishers: []string{"P1", "P2"}, Volume: "3", Pages: "1-10", DatePub: "2024"}
	for range 2 {
		m.Imprint(imprint, info, false)
	}
	if got := len(imprint.ChildElements()); got != 5 {
		t.Errorf("expected 5 imprint children, got %d", got)
	}
	m.Imprint(imprint, &record.InfoDoc{Volume: "4"}, true)
	if got := len(imprint.ChildElements()); got != 1 {
		t.Errorf("expected only new volume, got %d", got)
	}
}

func TestFile(t *testing.T) {
	m := newTestMapper(t, nil)
	biblFull := newScope()
	biblFull.CreateElement("titleStmt")
	biblFull.CreateElement("publicationStmt")

	m.File(biblFull, "first.pdf", false)
	m.File(biblFull, "second.pdf", false)
	if biblFull.ChildElements()[1].Tag != "editionStmt" {
		t.Fatalf("editionStmt must follow titleStmt: %s", tei.Dump(biblFull))
	}
	refs := biblFull.FindElements("editionStmt/edition/ref")
	if len(refs) != 1 || attrValue(refs[0], "target") != "second.pdf" {
		t.Errorf("unexpected file references: %s", tei.Dump(biblFull))
	}
}

func TestFile_CurrentEdition(t *testing.T) {
	m := newTestMapper(t, nil)
	biblFull := newScope()
	stmt := biblFull.CreateElement("editionStmt")
	stmt.CreateElement("edition").CreateAttr("n", "v1")
	current := stmt.CreateElement("edition")
	current.CreateAttr("n", "v2")
	current.CreateAttr("type", "current")

	m.File(biblFull, "paper.pdf", true)
	refs := biblFull.FindElements("editionStmt/edition/ref")
	if len(refs) != 1 || refs[0].Parent() != current {
		t.Errorf("file must be attached to current edition: %s", tei.Dump(biblFull))
	}
}
