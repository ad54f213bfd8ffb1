package mapper

import (
	"github.com/beevik/etree"

	"halc/tei"
)

// File declares deposited file in editionStmt of biblFull. Target is the file
// name inside deposit archive.
func (m *Mapper) File(scope *etree.Element, target string, clear bool) []*etree.Element {
	match := tei.Match{Tag: "ref", Attrs: attrs("type", "file"), Strict: true}
	if clear {
		m.ed.Remove(scope, match)
	}
	if len(target) == 0 {
		return nil
	}
	stmt := m.ed.Ensure(scope, "editionStmt", "publicationStmt", "seriesStmt", "notesStmt", "sourceDesc", "profileDesc")
	edition := m.currentEdition(stmt)
	return appendNotNil(nil, m.ed.Upsert(edition, tei.Node{
		Tag:    "ref",
		Unique: match.Attrs,
		Extra:  attrs("subtype", "author", "n", "1", "target", target),
	}))
}

// currentEdition prefers edition marked as current, documents downloaded from
// HAL list every version of deposit.
func (m *Mapper) currentEdition(stmt *etree.Element) *etree.Element {
	if found := m.ed.Find(stmt, tei.Match{Tag: "edition", Attrs: attrs("type", "current"), Strict: true}); len(found) > 0 {
		return found[0]
	}
	return m.ed.Ensure(stmt, "edition")
}
