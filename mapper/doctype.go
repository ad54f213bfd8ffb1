package mapper

import (
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"halc/tei"
)

// DefaultDocType is used for document types not present in alias table.
const DefaultDocType = "ART"

var docTypes = map[string][]string{
	"ART":          {"art", "article", "journalarticle", "articlejournal"},
	"ARTREV":       {"artrev", "articlereview", "review", "articlesynthese"},
	"DATAPAPER":    {"datapaper", "paperdata"},
	"BOOKREVIEW":   {"bookreview", "compterendulecture"},
	"COMM":         {"comm", "conferencepaper", "communication", "conference"},
	"POSTER":       {"poster"},
	"PROCEEDINGS":  {"proceedings", "recueilcommunications"},
	"ISSUE":        {"issue", "specialissue", "numerospecial"},
	"OUV":          {"ouv", "book", "monograph", "ouvrage"},
	"CRIT":         {"crit", "editioncritique"},
	"MANUAL":       {"manual", "manuel"},
	"SYNTOUV":      {"syntouv", "ouvragesynthese"},
	"DICTIONARY":   {"dictionary", "dictionnaire", "encyclopedie"},
	"COUV":         {"couv", "chapitre", "chapter", "bookchapter"},
	"BLOG":         {"blog", "articleblog"},
	"NOTICE":       {"notice", "noticedictionary", "noticeencyclopede"},
	"TRAD":         {"trad", "traduction", "translation"},
	"PATENT":       {"patent", "brevet"},
	"OTHER":        {"other", "autre"},
	"UNDEFINED":    {"undefined", "prepublication", "documenttravail"},
	"PREPRINT":     {"preprint"},
	"WORKINGPAPER": {"workingpaper"},
	"CREPORT":      {"creport", "chapitrerapport", "chaptereport"},
	"REPORT":       {"report", "rapport"},
	"RESREPORT":    {"resreport", "rapportrecherche", "researchreport"},
	"TECHREPORT":   {"techreport", "rapporttechnique", "technicalreport"},
	"FUNDREPORT":   {"fundreport", "rapportcontrat", "rapportprojet", "contractreport", "projectreport"},
	"EXPERTREPORT": {"expertreport", "rapportexpertise"},
	"DMP":          {"dmp", "plangestiondonnees"},
	"THESE":        {"these", "theses", "thesis"},
	"HDR":          {"hdr", "habilitation"},
	"LECTURE":      {"lecture", "cours"},
	"MEM":          {"mem", "memoire"},
	"IMG":          {"img", "image", "picture"},
	"PHOTOGRAPHY":  {"photography", "photo", "photographie"},
	"DRAWING":      {"drawing", "dessin"},
	"ILLUSTRATION": {"illustration"},
	"GRAVURE":      {"gravure"},
	"GRAPHICS":     {"graphics"},
	"VIDEO":        {"video", "movie"},
	"SON":          {"son", "sound"},
	"SOFTWARE":     {"software", "logiciel"},
	"PRESCONF":     {"presconf"},
	"ETABTHESE":    {"etabthese"},
	"MEMLIC":       {"memlic", "memclic"},
	"NOTE":         {"note"},
	"OTHERREPORT":  {"otherreport", "autrerapport"},
	"REPACT":       {"repact", "rapportactivite"},
	"SYNTHESE":     {"synthese", "notesynthese"},
}

var docTypeAliases = func() map[string]string {
	res := make(map[string]string)
	for code, aliases := range docTypes {
		for _, a := range aliases {
			res[a] = code
		}
	}
	return res
}()

// ResolveDocType returns HAL typology code for free form document type. The
// second value is false when name is unknown and DefaultDocType was used.
func ResolveDocType(name string) (string, bool) {
	key := strings.ToLower(strings.Join(strings.FieldsFunc(name, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	}), ""))
	if code, ok := docTypeAliases[key]; ok {
		return code, true
	}
	return DefaultDocType, false
}

// DocType writes document typology, empty name produces nothing.
func (m *Mapper) DocType(scope *etree.Element, name string, clear bool) []*etree.Element {
	match := tei.Match{Tag: "classCode", Attrs: attrs("scheme", "halTypology"), Strict: true}
	if clear {
		m.ed.Remove(scope, match)
	}
	if len(name) == 0 {
		m.log.Debug("No type of document provided")
		return nil
	}
	code, ok := ResolveDocType(name)
	if !ok {
		m.log.Warn("Unknown type of document, forcing article", zap.String("type", name), zap.String("code", code))
	}
	el := m.ed.Upsert(scope, tei.Node{Tag: "classCode", Unique: match.Attrs, Extra: attrs("n", code)})
	return appendNotNil(nil, el)
}
