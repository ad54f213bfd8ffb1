package mapper

import (
	"github.com/beevik/etree"
	"go.uber.org/zap"

	"halc/record"
	"halc/tei"
)

const conferenceOrganizer = "conferenceOrganizer"

// Conference writes meeting description and its organizers into monogr.
func (m *Mapper) Conference(scope *etree.Element, c *record.Conference, clear bool) []*etree.Element {
	if clear {
		m.ed.Remove(scope, tei.Match{Tag: "meeting"})
		m.ed.Remove(scope, tei.Match{Tag: "respStmt"})
	}
	if c == nil {
		m.log.Debug("No conference provided")
		return nil
	}

	meeting := m.ed.Ensure(scope, "meeting", "respStmt", "editor", "imprint")
	res := []*etree.Element{meeting}
	if len(c.Title) > 0 {
		m.ed.Upsert(meeting, tei.Node{Tag: "title", Text: c.Title, Before: []string{"date", "settlement", "country"}})
	}
	for _, d := range []struct{ kind, value string }{{"start", c.Start}, {"end", c.End}} {
		if len(d.value) > 0 {
			m.ed.Upsert(meeting, tei.Node{Tag: "date", Text: d.value, Unique: attrs("type", d.kind), Before: []string{"settlement", "country"}})
		}
	}
	if len(c.Location) > 0 {
		m.ed.Upsert(meeting, tei.Node{Tag: "settlement", Text: c.Location, Before: []string{"country"}})
	}
	if len(c.Country) > 0 {
		if code, name, ok := Country(c.Country); ok {
			m.ed.Upsert(meeting, tei.Node{Tag: "country", Text: name, Extra: attrs("key", code)})
		} else {
			m.log.Warn("Unknown country, ignoring", zap.String("country", c.Country))
		}
	}

	if len(c.Organizers) > 0 {
		resp := m.ed.Ensure(scope, "respStmt", "editor", "imprint")
		m.ed.Upsert(resp, tei.Node{Tag: "resp", Text: conferenceOrganizer, Before: []string{"name"}})
		for _, o := range c.Organizers {
			if len(o) > 0 {
				m.ed.Upsert(resp, tei.Node{Tag: "name", Text: o, MatchText: true})
			}
		}
		res = append(res, resp)
	}
	return res
}
