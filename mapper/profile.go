package mapper

import (
	"github.com/beevik/etree"
	"go.uber.org/zap"

	"halc/record"
	"halc/tei"
)

// Language writes main document language into langUsage. When no value is
// given and document has none, English is used.
func (m *Mapper) Language(scope *etree.Element, lang string, clear bool) []*etree.Element {
	if clear {
		m.ed.Remove(scope, tei.Match{Tag: "language"})
	}
	usage := m.ed.Ensure(scope, "langUsage", "textClass", "abstract")
	if len(lang) == 0 {
		if found := m.ed.Find(usage, tei.Match{Tag: "language"}); len(found) > 0 {
			return found[:1]
		}
		m.log.Warn("No language provided, defaulting to English", zap.String("lang", defaultLang))
		lang = defaultLang
	} else {
		m.checkLang("lang", lang)
	}
	return appendNotNil(nil, m.ed.Upsert(usage, tei.Node{Tag: "language", Extra: attrs("ident", lang)}))
}

// Keywords writes author keywords, each value as separate term.
func (m *Mapper) Keywords(scope *etree.Element, keywords record.Multilingual, clear bool) []*etree.Element {
	match := tei.Match{Tag: "keywords", Attrs: attrs("scheme", "author"), Strict: true}
	if clear {
		m.ed.Remove(scope, match)
	}
	if keywords.Empty() {
		m.log.Debug("No keywords provided")
		return nil
	}
	kw := m.ed.Upsert(scope, tei.Node{Tag: "keywords", Unique: match.Attrs, Before: []string{"classCode"}})
	var res []*etree.Element
	langs, values := m.languages("keywords", keywords)
	for _, lang := range langs {
		for _, v := range values[lang] {
			if len(v) == 0 {
				continue
			}
			res = appendNotNil(res, m.ed.Upsert(kw, tei.Node{Tag: "term", Text: v, Unique: attrs("xml:lang", lang), MatchText: true}))
		}
	}
	return res
}

// Codes writes classification codes and HAL domains. Document typology is
// handled by DocType and is never touched here.
func (m *Mapper) Codes(scope *etree.Element, codes *record.Codes, clear bool) []*etree.Element {
	if clear {
		m.ed.Remove(scope, tei.Match{Tag: "classCode", Not: attrs("scheme", "halTypology")})
	}
	if codes == nil {
		m.log.Debug("No classification codes provided")
		return nil
	}
	var res []*etree.Element
	for _, c := range []struct{ scheme, value string }{
		{"classification", codes.Classification},
		{"acm", codes.ACM},
		{"mesh", codes.MeSH},
		{"jel", codes.JEL},
	} {
		if len(c.value) > 0 {
			res = appendNotNil(res, m.ed.Upsert(scope, tei.Node{Tag: "classCode", Text: c.value, Unique: attrs("scheme", c.scheme)}))
		}
	}
	for _, d := range codes.HalDomains {
		if len(d) > 0 {
			res = appendNotNil(res, m.ed.Upsert(scope, tei.Node{Tag: "classCode", Unique: attrs("scheme", "halDomain", "n", d)}))
		}
	}
	return res
}

// Abstract writes one abstract per language.
func (m *Mapper) Abstract(scope *etree.Element, abstract record.Multilingual, clear bool) []*etree.Element {
	if clear {
		m.ed.Remove(scope, tei.Match{Tag: "abstract"})
	}
	if abstract.Empty() {
		m.log.Debug("No abstract provided")
		return nil
	}
	var res []*etree.Element
	langs, values := m.languages("abstract", abstract)
	for _, lang := range langs {
		res = appendNotNil(res, m.ed.Upsert(scope, tei.Node{
			Tag:           "abstract",
			Text:          m.single("abstract", lang, values[lang]),
			Unique:        attrs("xml:lang", lang),
			RemoveIfEmpty: true,
		}))
	}
	return res
}
