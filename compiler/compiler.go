// Package compiler builds or amends HAL TEI document from metadata record.
package compiler

import (
	"context"
	"slices"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"halc/mapper"
	"halc/record"
	"halc/tei"
)

// Options control which external references are resolved during compilation.
type Options struct {
	ResolveJournals     bool
	ResolveAffiliations bool
}

type Compiler struct {
	log  *zap.Logger
	ed   *tei.Editor
	res  mapper.Resolver
	opts Options
}

// New returns compiler. res may be nil, then nothing is resolved regardless
// of options.
func New(res mapper.Resolver, opts Options, log *zap.Logger) *Compiler {
	return &Compiler{
		log:  log,
		ed:   tei.NewEditor(log.Named("tei")),
		res:  res,
		opts: opts,
	}
}

// Compile applies record to doc and returns it. When doc is nil new document
// is created. Problems with record content are logged, compilation itself
// never fails.
func (c *Compiler) Compile(ctx context.Context, doc *etree.Document, rec *record.Record) *etree.Document {
	if doc == nil {
		doc = tei.NewDocument()
	}
	var res mapper.Resolver
	if c.opts.ResolveJournals {
		res = c.res
	}
	m := mapper.New(c.ed, res, c.log.Named("mapper"))
	s := c.ed.Skeleton(doc)
	rm := rec.Remove

	authors := c.affiliations(ctx, s, rec)

	c.log.Debug("Adding titles and authors")
	for _, scope := range []*etree.Element{s.TitleStmt, s.Analytic} {
		m.Titles(scope, rec.Title, rec.Subtitle, rm.Has(record.SectionTitle), rm.Has(record.SectionSubtitle))
		m.Authors(scope, authors, rm.Has(record.SectionAuthors))
	}
	if len(rec.File) > 0 {
		m.File(s.BiblFull, rec.File, false)
	}

	c.log.Debug("Adding licence and notes")
	m.License(s.PublicationStmt, rec.License, rm.Has(record.SectionLicense))
	m.Notes(s.NotesStmt, rec.Notes, rm.Has(record.SectionNotes))
	m.Stamps(s.BiblFull, rec.Stamps, rm.Has(record.SectionStamps))

	c.log.Debug("Adding bibliographic description")
	m.Identifiers(ctx, s.Monogr, rec.IDs, rm.Has(record.SectionID))
	m.Imprint(s.Imprint, rec.InfoDoc, rm.Has(record.SectionInfoDoc))
	m.Conference(s.Monogr, rec.Conference, rm.Has(record.SectionConference))
	m.Editors(s.Monogr, rec.Editors, rm.Has(record.SectionEditors))
	m.Series(s.Series, rec.Series, rm.Has(record.SectionSeries))
	m.ExtRef(s.BiblStruct, rec.ExtRef, rm.Has(record.SectionExtRef))

	c.log.Debug("Adding profile")
	m.Language(s.ProfileDesc, rec.Lang, rm.Has(record.SectionLang))
	m.Keywords(s.TextClass, rec.Keywords, rm.Has(record.SectionKeywords))
	m.Codes(s.TextClass, rec.Codes, rm.Has(record.SectionCodes))
	if len(rec.Type) > 0 {
		c.log.Debug("Type of document", zap.String("type", rec.Type))
	}
	m.DocType(s.TextClass, rec.Type, rm.Has(record.SectionType))
	m.Abstract(s.ProfileDesc, rec.Abstract, rm.Has(record.SectionAbstract))

	c.log.Debug("Adding structures")
	m.Structures(s.ListOrg, rec.Structures, rm.Has(record.SectionStructures))
	return doc
}

// Attach makes document reference file to be deposited with it, replacing
// any previously referenced one.
func (c *Compiler) Attach(doc *etree.Document, target string) {
	m := mapper.New(c.ed, nil, c.log.Named("mapper"))
	m.File(c.ed.Skeleton(doc).BiblFull, target, true)
}

// affiliations returns authors with local affiliations checked against
// structures declared in record or present in document. Unknown ones are
// looked up in HAL when allowed and turned into HAL structure references.
func (c *Compiler) affiliations(ctx context.Context, s *tei.Sections, rec *record.Record) []record.Author {
	declared := func(id string) bool {
		if rec.StructureByID(id) != nil {
			return true
		}
		if rec.Remove.Has(record.SectionStructures) {
			return false
		}
		return len(c.ed.Find(s.ListOrg, tei.Match{
			Tag:    "org",
			Attrs:  map[string]string{"xml:id": "localStruct-" + id},
			Strict: true,
		})) > 0
	}
	resolve := c.opts.ResolveAffiliations && c.res != nil

	authors := slices.Clone(rec.Authors)
	for i := range authors {
		a := &authors[i]
		var local []string
		hal := slices.Clone(a.AffiliationHAL)
		for _, aff := range a.Affiliation {
			if declared(aff) {
				local = append(local, aff)
				continue
			}
			if resolve {
				if id, ok := c.res.StructureID(ctx, aff); ok {
					c.log.Debug("Affiliation resolved", zap.String("affiliation", aff), zap.String("id", id))
					hal = append(hal, id)
					continue
				}
			}
			c.log.Warn("Affiliation refers to undeclared structure", zap.String("author", a.Last), zap.String("affiliation", aff))
			local = append(local, aff)
		}
		a.Affiliation, a.AffiliationHAL = local, hal
	}
	return authors
}
