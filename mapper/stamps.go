package mapper

import (
	"github.com/beevik/etree"

	"halc/tei"
)

var stampMatch = tei.Match{Tag: "idno", Attrs: attrs("type", "stamp"), Strict: true}

// Stamps writes collection stamps into seriesStmt of biblFull.
func (m *Mapper) Stamps(scope *etree.Element, stamps []string, clear bool) []*etree.Element {
	if clear {
		m.ed.Remove(scope, stampMatch)
	}
	if len(stamps) == 0 {
		m.log.Debug("No stamps provided")
		return nil
	}
	series := m.ed.Ensure(scope, "seriesStmt", "notesStmt", "sourceDesc", "profileDesc")
	var res []*etree.Element
	for _, s := range stamps {
		if len(s) == 0 {
			continue
		}
		res = appendNotNil(res, m.ed.Upsert(series, tei.Node{Tag: "idno", Unique: attrs("type", "stamp", "n", s)}))
	}
	return res
}
