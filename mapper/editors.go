package mapper

import (
	"github.com/beevik/etree"

	"halc/tei"
)

// Editors writes scientific editors of monograph.
func (m *Mapper) Editors(scope *etree.Element, editors []string, clear bool) []*etree.Element {
	if clear {
		m.ed.Remove(scope, tei.Match{Tag: "editor"})
	}
	if len(editors) == 0 {
		m.log.Debug("No scientific editors provided")
		return nil
	}
	var res []*etree.Element
	for _, e := range editors {
		if len(e) > 0 {
			res = appendNotNil(res, m.ed.Upsert(scope, tei.Node{Tag: "editor", Text: e, MatchText: true, Before: []string{"imprint"}}))
		}
	}
	return res
}
