package mapper

import (
	"github.com/beevik/etree"
	"go.uber.org/zap"

	"halc/common"
	"halc/record"
	"halc/tei"
)

// ExtRef writes external identifiers, publisher links and related links into
// biblStruct.
func (m *Mapper) ExtRef(scope *etree.Element, refs *record.ExtRef, clear bool) []*etree.Element {
	if clear {
		for _, kind := range record.ExtRefKinds {
			m.ed.Remove(scope, tei.Match{Tag: "idno", Attrs: attrs("type", kind), Strict: true})
		}
		m.ed.Remove(scope, tei.Match{Tag: "ref", Attrs: attrs("type", "publisher"), Strict: true})
		m.ed.Remove(scope, tei.Match{Tag: "ref", Attrs: attrs("type", "seeAlso"), Strict: true})
	}
	if refs == nil {
		m.log.Debug("No external references provided")
		return nil
	}

	var res []*etree.Element
	for _, kind := range record.ExtRefKinds {
		v := refs.IDs[kind]
		if len(v) == 0 {
			continue
		}
		if kind == "doi" {
			if _, err := common.NormalizeDOI(v); err != nil {
				m.log.Warn("DOI is not valid, continuing", zap.String("doi", v), zap.Error(err))
			}
		}
		res = appendNotNil(res, m.ed.Upsert(scope, tei.Node{Tag: "idno", Text: v, Unique: attrs("type", kind), RemoveIfEmpty: true}))
	}
	for _, p := range refs.Publishers {
		if len(p) > 0 {
			res = appendNotNil(res, m.ed.Upsert(scope, tei.Node{Tag: "ref", Text: p, Unique: attrs("type", "publisher"), MatchText: true}))
		}
	}
	for _, l := range refs.Links {
		if len(l) > 0 {
			res = appendNotNil(res, m.ed.Upsert(scope, tei.Node{Tag: "ref", Text: l, Unique: attrs("type", "seeAlso"), MatchText: true}))
		}
	}
	return res
}
