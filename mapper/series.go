package mapper

import (
	"github.com/beevik/etree"

	"halc/record"
	"halc/tei"
)

// Series writes editor and title of book or proceedings series.
func (m *Mapper) Series(scope *etree.Element, s *record.Series, clear bool) []*etree.Element {
	if clear {
		m.ed.Remove(scope, tei.Match{Tag: "editor"})
		m.ed.Remove(scope, tei.Match{Tag: "title"})
	}
	if s == nil {
		m.log.Debug("No series provided")
		return nil
	}
	var res []*etree.Element
	if len(s.Editor) > 0 {
		res = appendNotNil(res, m.ed.Upsert(scope, tei.Node{Tag: "editor", Text: s.Editor, Before: []string{"title"}}))
	}
	if len(s.Title) > 0 {
		res = appendNotNil(res, m.ed.Upsert(scope, tei.Node{Tag: "title", Text: s.Title}))
	}
	return res
}
