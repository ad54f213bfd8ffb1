package mapper

import (
	"context"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"halc/common"
	"halc/record"
	"halc/tei"
)

// monogr children which must follow identifiers and titles.
var afterIdentifiers = []string{"meeting", "respStmt", "editor", "imprint"}

// Identifiers writes monograph identifiers and journal/book titles. Journal
// given by name only is resolved to HAL journal id when resolver is set.
func (m *Mapper) Identifiers(ctx context.Context, scope *etree.Element, ids *record.Identifiers, clear bool) []*etree.Element {
	if clear {
		m.ed.Remove(scope, tei.Match{Tag: "idno"})
		m.ed.Remove(scope, tei.Match{Tag: "title", Attrs: attrs("level", "")})
	}
	if ids == nil {
		m.log.Debug("No identifiers provided")
		return nil
	}

	if len(ids.ISBN) > 0 {
		if _, err := common.NormalizeISBN(ids.ISBN); err != nil {
			m.log.Warn("ISBN is not valid, continuing", zap.String("isbn", ids.ISBN), zap.Error(err))
		}
	}
	if len(ids.ISSN) > 0 {
		if _, err := common.NormalizeISSN(ids.ISSN); err != nil {
			m.log.Warn("ISSN is not valid, continuing", zap.String("issn", ids.ISSN), zap.Error(err))
		}
	}
	if len(ids.EISSN) > 0 {
		if _, err := common.NormalizeISSN(ids.EISSN); err != nil {
			m.log.Warn("eISSN is not valid, continuing", zap.String("eissn", ids.EISSN), zap.Error(err))
		}
	}

	journalID := ids.HalJournalID
	if len(journalID) == 0 && len(ids.Journal) > 0 {
		journalID = m.resolveJournal(ctx, ids.Journal)
	}

	var res []*etree.Element
	for _, id := range []struct{ kind, value string }{
		{"nnt", ids.NNT},
		{"isbn", ids.ISBN},
		{"patentNumber", ids.PatentNumber},
		{"reportNumber", ids.ReportNumber},
		{"localRef", ids.LocalRef},
		{"halJournalId", journalID},
		{"issn", ids.ISSN},
		{"eissn", ids.EISSN},
	} {
		if len(id.value) == 0 {
			continue
		}
		res = appendNotNil(res, m.ed.Upsert(scope, tei.Node{
			Tag:    "idno",
			Text:   id.value,
			Unique: attrs("type", id.kind),
			Before: afterIdentifiers,
		}))
	}

	journal := ids.J
	if len(journal) == 0 {
		journal = ids.Journal
	}
	if len(journal) > 0 {
		res = appendNotNil(res, m.ed.Upsert(scope, tei.Node{Tag: "title", Text: journal, Unique: attrs("level", "j"), Before: afterIdentifiers}))
	}
	book := firstNonEmpty(ids.M, ids.BookTitle, ids.Source)
	if len(book) > 0 {
		res = appendNotNil(res, m.ed.Upsert(scope, tei.Node{Tag: "title", Text: book, Unique: attrs("level", "m"), Before: afterIdentifiers}))
	}
	return res
}

func (m *Mapper) resolveJournal(ctx context.Context, name string) string {
	if m.res == nil {
		m.log.Debug("Journal id is not provided and resolution is disabled", zap.String("journal", name))
		return ""
	}
	id, ok := m.res.JournalID(ctx, name)
	if !ok {
		m.log.Warn("Unable to find journal in HAL", zap.String("journal", name))
		return ""
	}
	m.log.Debug("Journal resolved", zap.String("journal", name), zap.String("id", id))
	return id
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if len(v) > 0 {
			return v
		}
	}
	return ""
}
