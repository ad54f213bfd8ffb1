package mapper

import (
	"github.com/beevik/etree"
	"go.uber.org/zap"

	"halc/record"
	"halc/tei"
)

var (
	mainTitle = tei.Match{Tag: "title", Not: attrs("type", "", "level", "")}
	subTitle  = tei.Match{Tag: "title", Attrs: attrs("type", "sub"), Strict: true}

	// titles open both titleStmt and analytic
	titleBefore = []string{"author", "editor", "funder", "sponsor"}
)

// Titles writes main titles and subtitles, one element per language.
func (m *Mapper) Titles(scope *etree.Element, titles, subtitles record.Multilingual, clearTitles, clearSubtitles bool) []*etree.Element {
	if clearTitles {
		m.ed.Remove(scope, mainTitle)
	}
	if clearSubtitles {
		m.ed.Remove(scope, subTitle)
	}
	if titles.Empty() && subtitles.Empty() {
		m.log.Warn("No title nor subtitle provided")
		return nil
	}

	var res []*etree.Element
	langs, values := m.languages("title", titles)
	for _, lang := range langs {
		res = appendNotNil(res, m.ed.Upsert(scope, tei.Node{
			Tag:           "title",
			Text:          m.single("title", lang, values[lang]),
			Unique:        attrs("xml:lang", lang),
			Not:           mainTitle.Not,
			RemoveIfEmpty: true,
			Before:        titleBefore,
		}))
	}
	langs, values = m.languages("subtitle", subtitles)
	for _, lang := range langs {
		res = appendNotNil(res, m.ed.Upsert(scope, tei.Node{
			Tag:           "title",
			Text:          m.single("subtitle", lang, values[lang]),
			Unique:        attrs("xml:lang", lang, "type", "sub"),
			RemoveIfEmpty: true,
			Before:        titleBefore,
		}))
	}
	return res
}

func (m *Mapper) single(field, lang string, values []string) string {
	if len(values) == 0 {
		return ""
	}
	if len(values) > 1 {
		m.log.Warn("Several values for single valued field, using first", zap.String("field", field), zap.String("lang", lang))
	}
	return values[0]
}
