package mapper

import (
	"github.com/beevik/etree"

	"halc/record"
	"halc/tei"
)

// Imprint writes publishers, bibliographic scopes and dates.
func (m *Mapper) Imprint(scope *etree.Element, info *record.InfoDoc, clear bool) []*etree.Element {
	if clear {
		for _, tag := range []string{"publisher", "biblScope", "date"} {
			m.ed.Remove(scope, tei.Match{Tag: tag})
		}
	}
	if info == nil {
		m.log.Debug("No document info provided")
		return nil
	}

	var res []*etree.Element
	for _, p := range info.Publishers {
		if len(p) == 0 {
			continue
		}
		res = appendNotNil(res, m.ed.Upsert(scope, tei.Node{Tag: "publisher", Text: p, MatchText: true, Before: []string{"biblScope", "date"}}))
	}
	for _, s := range []struct{ unit, value string }{
		{"serie", info.Serie},
		{"volume", info.Volume},
		{"issue", info.Issue},
		{"pp", info.Pages},
	} {
		if len(s.value) > 0 {
			res = appendNotNil(res, m.ed.Upsert(scope, tei.Node{Tag: "biblScope", Text: s.value, Unique: attrs("unit", s.unit), Before: []string{"date"}}))
		}
	}
	for _, d := range []struct{ kind, value string }{
		{"datePub", info.DatePub},
		{"dateEpub", info.DateEpub},
		{"whenWritten", info.WhenWritten},
		{"whenSubmitted", info.WhenSubmitted},
		{"whenReleased", info.WhenReleased},
		{"whenProduced", info.WhenProduced},
	} {
		if len(d.value) > 0 {
			res = appendNotNil(res, m.ed.Upsert(scope, tei.Node{Tag: "date", Text: d.value, Unique: attrs("type", d.kind)}))
		}
	}
	return res
}
