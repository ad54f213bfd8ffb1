// Package record holds metadata record describing single HAL deposit and its
// tolerant decoding from JSON or YAML.
package record

import "slices"

// Multilingual is a text value which may or may not be tagged with languages.
// Implicit values come from plain string or list input, they are kept under
// empty language until mapper decides which language to use.
type Multilingual struct {
	Implicit bool
	Langs    []string
	Values   map[string][]string
}

func (m *Multilingual) add(lang string, values ...string) {
	if m.Values == nil {
		m.Values = make(map[string][]string)
	}
	if _, ok := m.Values[lang]; !ok {
		m.Langs = append(m.Langs, lang)
	}
	m.Values[lang] = append(m.Values[lang], values...)
}

func (m Multilingual) Empty() bool {
	for _, v := range m.Values {
		if slices.ContainsFunc(v, func(s string) bool { return len(s) > 0 }) {
			return false
		}
	}
	return true
}

// NewMultilingual builds explicit value from lang/text pairs.
func NewMultilingual(pairs ...string) Multilingual {
	var m Multilingual
	for i := 0; i+1 < len(pairs); i += 2 {
		m.add(pairs[i], pairs[i+1])
	}
	return m
}

// NewImplicit builds value without language.
func NewImplicit(values ...string) Multilingual {
	m := Multilingual{Implicit: true}
	m.add("", values...)
	return m
}

type Address struct {
	Line    string
	Country string
}

type Structure struct {
	ID      string
	Name    string
	Acronym string
	Type    string
	URL     string
	Address *Address
}

type Author struct {
	First          string
	Middle         string
	Last           string
	Role           string
	Email          string
	IDHal          string
	HalAuthor      string
	URL            string
	ORCID          string
	Arxiv          string
	ResearcherID   string
	IDRef          string
	Affiliation    []string
	AffiliationHAL []string
}

type Notes struct {
	Audience    string
	Invited     string
	Popular     string
	Peer        string
	Proceedings string
	Comment     string
	Description string
}

type Identifiers struct {
	NNT          string
	ISBN         string
	PatentNumber string
	ReportNumber string
	LocalRef     string
	HalJournalID string
	Journal      string
	ISSN         string
	EISSN        string
	J            string
	M            string
	BookTitle    string
	Source       string
}

type InfoDoc struct {
	Publishers    []string
	Serie         string
	Volume        string
	Issue         string
	Pages         string
	DatePub       string
	DateEpub      string
	WhenWritten   string
	WhenSubmitted string
	WhenReleased  string
	WhenProduced  string
}

type Series struct {
	Editor string
	Title  string
}

// ExtRefKinds lists external identifier kinds in output order.
var ExtRefKinds = []string{
	"doi", "arxiv", "bibcode", "ird", "pubmed", "ads", "pubmedcentral",
	"irstea", "sciencespo", "oatao", "ensam", "prodinra",
}

type ExtRef struct {
	IDs        map[string]string
	Publishers []string
	// Links are seeAlso references, link0..link9 in input.
	Links []string
}

type Codes struct {
	Classification string
	ACM            string
	MeSH           string
	JEL            string
	HalDomains     []string
}

type Conference struct {
	Title      string
	Start      string
	End        string
	Location   string
	Country    string
	Organizers []string
}

// Record is decoded metadata. Nil pointers and empty values mean section was
// not provided.
type Record struct {
	Type       string
	Title      Multilingual
	Subtitle   Multilingual
	Authors    []Author
	License    string
	Notes      *Notes
	Stamps     []string
	IDs        *Identifiers
	InfoDoc    *InfoDoc
	Series     *Series
	ExtRef     *ExtRef
	Conference *Conference
	Editors    []string
	Lang       string
	Keywords   Multilingual
	Codes      *Codes
	Abstract   Multilingual
	Structures []Structure
	File       string
	Remove     Sections
}

// StructureByID returns declared structure or nil.
func (r *Record) StructureByID(id string) *Structure {
	for i := range r.Structures {
		if r.Structures[i].ID == id {
			return &r.Structures[i]
		}
	}
	return nil
}
