// Package mapper translates record sections into elements of HAL TEI document.
//
// Every mapper follows the same contract: it receives the container element,
// the value from record and whether the section should be cleared first. It
// returns elements it produced (nil when there was nothing to write) and
// reports problems with input to the logger instead of failing.
package mapper

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"halc/record"
	"halc/tei"
)

// Resolver finds canonical identifiers of external references.
type Resolver interface {
	JournalID(ctx context.Context, name string) (string, bool)
	StructureID(ctx context.Context, name string) (string, bool)
}

const defaultLang = "en"

type Mapper struct {
	ed  *tei.Editor
	log *zap.Logger
	res Resolver
}

// New returns mapper, res may be nil in which case references which are not
// present in the record are left unresolved.
func New(ed *tei.Editor, res Resolver, log *zap.Logger) *Mapper {
	return &Mapper{ed: ed, res: res, log: log}
}

func (m *Mapper) Resolver() Resolver {
	return m.res
}

// languages returns languages in input order and values for each of them.
// Value without language is assigned to English.
func (m *Mapper) languages(field string, v record.Multilingual) ([]string, map[string][]string) {
	if v.Empty() {
		return nil, nil
	}
	if v.Implicit {
		m.log.Warn("No language specified, defaulting to English", zap.String("field", field))
		var values []string
		for _, l := range v.Langs {
			values = append(values, v.Values[l]...)
		}
		return []string{defaultLang}, map[string][]string{defaultLang: values}
	}
	for _, l := range v.Langs {
		m.checkLang(field, l)
	}
	return v.Langs, v.Values
}

func (m *Mapper) checkLang(field, lang string) {
	if _, err := language.Parse(lang); err != nil {
		m.log.Warn("Unrecognized language code, keeping as is", zap.String("field", field), zap.String("lang", lang), zap.Error(err))
	}
}

func attrs(kv ...string) map[string]string {
	res := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		res[kv[i]] = kv[i+1]
	}
	return res
}

func appendNotNil[T any](list []*T, el *T) []*T {
	if el == nil {
		return list
	}
	return append(list, el)
}
