package record

import (
	"slices"
	"strings"
)

// Section names accepted in "remove" list.
const (
	SectionTitle      = "title"
	SectionSubtitle   = "subtitle"
	SectionAuthors    = "authors"
	SectionLicense    = "license"
	SectionNotes      = "notes"
	SectionStamps     = "stamps"
	SectionID         = "ID"
	SectionInfoDoc    = "infoDoc"
	SectionSeries     = "series"
	SectionExtRef     = "extref"
	SectionConference = "conference"
	SectionEditors    = "editors"
	SectionLang       = "lang"
	SectionKeywords   = "keywords"
	SectionCodes      = "codes"
	SectionType       = "type"
	SectionAbstract   = "abstract"
	SectionStructures = "structures"
)

var knownSections = []string{
	SectionTitle, SectionSubtitle, SectionAuthors, SectionLicense, SectionNotes,
	SectionStamps, SectionID, SectionInfoDoc, SectionSeries, SectionExtRef,
	SectionConference, SectionEditors, SectionLang, SectionKeywords, SectionCodes,
	SectionType, SectionAbstract, SectionStructures,
}

// Sections is a set of sections to be cleared before new content is written.
type Sections map[string]struct{}

// canonicalSection resolves section name, matching is case insensitive and
// "licence" spelling is accepted.
func canonicalSection(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if strings.EqualFold(name, "licence") {
		return SectionLicense, true
	}
	i := slices.IndexFunc(knownSections, func(s string) bool { return strings.EqualFold(s, name) })
	if i < 0 {
		return "", false
	}
	return knownSections[i], true
}

func (s Sections) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns sections in canonical order.
func (s Sections) Names() []string {
	var res []string
	for _, n := range knownSections {
		if s.Has(n) {
			res = append(res, n)
		}
	}
	return res
}
