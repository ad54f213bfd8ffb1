package mapper

import (
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"halc/record"
	"halc/tei"
)

type flag struct {
	name  string
	value func(*record.Notes) string
	def   string
	parse func(string) (string, bool)
}

var flags = []flag{
	{"audience", func(n *record.Notes) string { return n.Audience }, "2", parseAudience},
	{"invited", func(n *record.Notes) string { return n.Invited }, "0", parseBinary},
	{"popular", func(n *record.Notes) string { return n.Popular }, "0", parseBinary},
	{"peer", func(n *record.Notes) string { return n.Peer }, "1", parseBinary},
	{"proceedings", func(n *record.Notes) string { return n.Proceedings }, "0", parseBinary},
}

var (
	yesValues = []string{"oui", "o", "yes", "y", "true", "t", "1"}
	noValues  = []string{"non", "n", "no", "f", "false", "0"}
)

func parseBinary(v string) (string, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, p := range yesValues {
		if strings.HasPrefix(v, p) {
			return "1", true
		}
	}
	for _, p := range noValues {
		if strings.HasPrefix(v, p) {
			return "0", true
		}
	}
	return "", false
}

func parseAudience(v string) (string, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	switch {
	case v == "1" || v == "2" || v == "3":
		return v, true
	case strings.HasPrefix(v, "int"):
		return "2", true
	case strings.HasPrefix(v, "nat"):
		return "3", true
	}
	return "", false
}

// Notes writes enumerated flags, commentary and description. Flags are always
// present in result: absent values get defaults. When notes is nil only missing
// flags are added and everything else is left alone.
func (m *Mapper) Notes(scope *etree.Element, notes *record.Notes, clear bool) []*etree.Element {
	if clear {
		m.ed.Remove(scope, tei.Match{Tag: "note"})
	}
	keep := notes == nil
	if keep {
		notes = &record.Notes{}
	}

	var res []*etree.Element
	for _, f := range flags {
		if keep {
			if found := m.ed.Find(scope, tei.Match{Tag: "note", Attrs: attrs("type", f.name), Strict: true}); len(found) > 0 {
				res = append(res, found[0])
				continue
			}
		}
		raw := f.value(notes)
		n := f.def
		if len(raw) > 0 {
			if v, ok := f.parse(raw); ok {
				n = v
			} else {
				m.log.Warn("Unexpected value, using default", zap.String("flag", f.name), zap.String("value", raw), zap.String("default", f.def))
			}
		}
		res = appendNotNil(res, m.ed.Upsert(scope, tei.Node{
			Tag:    "note",
			Unique: attrs("type", f.name),
			Extra:  attrs("n", n),
		}))
	}
	if keep {
		return res
	}
	// absent text notes keep whatever document has, "remove: [notes]" drops them
	for _, n := range []struct{ kind, text string }{
		{"commentary", notes.Comment},
		{"description", notes.Description},
	} {
		if len(n.text) > 0 {
			res = appendNotNil(res, m.ed.Upsert(scope, tei.Node{Tag: "note", Text: n.text, Unique: attrs("type", n.kind)}))
		}
	}
	return res
}
