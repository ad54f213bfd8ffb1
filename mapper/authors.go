package mapper

import (
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"halc/record"
	"halc/tei"
)

// Identifier type URIs used by HAL for author idno elements.
const (
	IDTypeORCID        = "https://orcid.org/"
	IDTypeArxiv        = "https://arxiv.org/a/"
	IDTypeResearcherID = "https://www.researcherid.com/rid/"
	IDTypeIdRef        = "https://www.idref.fr/"
)

const (
	localStructPrefix = "#localStruct-"
	halStructPrefix   = "#struct-"
)

// LocalStructRef returns affiliation reference to structure declared in the
// document back matter.
func LocalStructRef(id string) string {
	return localStructPrefix + id
}

// HALStructRef returns reference to structure known by HAL, any existing
// prefix is dropped first.
func HALStructRef(id string) string {
	return halStructPrefix + strings.TrimPrefix(strings.TrimSpace(id), halStructPrefix)
}

func (m *Mapper) findAuthor(scope *etree.Element, a record.Author) *etree.Element {
	for _, el := range m.ed.Find(scope, tei.Match{Tag: "author"}) {
		first := m.ed.Find(el, tei.Match{Tag: "forename", Attrs: attrs("type", "first"), Strict: true})
		last := m.ed.Find(el, tei.Match{Tag: "surname"})
		if len(first) > 0 && len(last) > 0 &&
			strings.TrimSpace(first[0].Text()) == a.First && strings.TrimSpace(last[0].Text()) == a.Last {
			return el
		}
	}
	return nil
}

// Authors writes author elements with names, identifiers and affiliations.
// Authors already present in scope are recognized by first and last name and
// updated in place.
func (m *Mapper) Authors(scope *etree.Element, authors []record.Author, clear bool) []*etree.Element {
	if clear {
		m.ed.Remove(scope, tei.Match{Tag: "author"})
	}
	if len(authors) == 0 {
		m.log.Debug("No authors provided")
		return nil
	}

	var res []*etree.Element
	for i, a := range authors {
		if len(a.First) == 0 || len(a.Last) == 0 {
			m.log.Warn("Author must have first and last name, skipping", zap.Int("index", i), zap.String("first", a.First), zap.String("last", a.Last))
			continue
		}
		role := a.Role
		if len(role) == 0 {
			m.log.Warn("No role for author, using 'aut'", zap.String("first", a.First), zap.String("last", a.Last))
			role = "aut"
		}

		el := m.findAuthor(scope, a)
		if el == nil {
			el = m.ed.Upsert(scope, tei.Node{Tag: "author", ForceNew: true})
		}
		el.CreateAttr("role", role)

		pers := m.ed.Ensure(el, "persName")
		m.ed.Upsert(pers, tei.Node{Tag: "forename", Text: a.First, Unique: attrs("type", "first")})
		m.ed.Upsert(pers, tei.Node{Tag: "forename", Text: a.Middle, Unique: attrs("type", "middle"), RemoveIfEmpty: true, Before: []string{"surname"}})
		m.ed.Upsert(pers, tei.Node{Tag: "surname", Text: a.Last})

		if len(a.Email) > 0 {
			m.ed.Upsert(el, tei.Node{Tag: "email", Text: a.Email})
		}
		if len(a.IDHal) > 0 {
			m.ed.Upsert(el, tei.Node{Tag: "idno", Text: a.IDHal, Unique: attrs("type", "idhal")})
		}
		if len(a.HalAuthor) > 0 {
			m.ed.Upsert(el, tei.Node{Tag: "idno", Text: a.HalAuthor, Unique: attrs("type", "halauthor")})
		}
		if len(a.URL) > 0 {
			m.ed.Upsert(el, tei.Node{Tag: "ptr", Unique: attrs("type", "url"), Extra: attrs("target", a.URL)})
		}
		for _, id := range []struct{ kind, value string }{
			{IDTypeORCID, a.ORCID},
			{IDTypeArxiv, a.Arxiv},
			{IDTypeResearcherID, a.ResearcherID},
			{IDTypeIdRef, a.IDRef},
		} {
			if len(id.value) > 0 {
				m.ed.Upsert(el, tei.Node{Tag: "idno", Text: id.value, Unique: attrs("type", id.kind)})
			}
		}
		for _, aff := range a.Affiliation {
			m.ed.Upsert(el, tei.Node{Tag: "affiliation", Unique: attrs("ref", LocalStructRef(aff))})
		}
		for _, aff := range a.AffiliationHAL {
			m.ed.Upsert(el, tei.Node{Tag: "affiliation", Unique: attrs("ref", HALStructRef(aff))})
		}
		res = append(res, el)
	}
	return res
}
