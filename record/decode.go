package record

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"
)

type entry struct {
	key string
	val *yaml.Node
}

type decoder struct {
	log *zap.Logger
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && (n.Kind == yaml.AliasNode || n.Kind == yaml.DocumentNode) {
		if n.Kind == yaml.AliasNode {
			n = n.Alias
			continue
		}
		if len(n.Content) == 0 {
			return nil
		}
		n = n.Content[0]
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "list"
	case yaml.ScalarNode:
		return "scalar"
	default:
		return "unknown"
	}
}

func (d *decoder) shape(field string, n *yaml.Node, expected string) {
	d.log.Warn("Unexpected value shape, ignoring",
		zap.String("field", field), zap.String("got", kindName(n)), zap.String("expected", expected), zap.Int("line", n.Line))
}

func (d *decoder) mapping(field string, n *yaml.Node) ([]entry, bool) {
	n = resolve(n)
	if isNull(n) {
		return nil, false
	}
	if n.Kind != yaml.MappingNode {
		d.shape(field, n, "mapping")
		return nil, false
	}
	res := make([]entry, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		res = append(res, entry{key: resolve(n.Content[i]).Value, val: n.Content[i+1]})
	}
	return res, true
}

func (d *decoder) str(field string, n *yaml.Node) string {
	n = resolve(n)
	if isNull(n) {
		return ""
	}
	if n.Kind != yaml.ScalarNode {
		d.shape(field, n, "scalar")
		return ""
	}
	return strings.TrimSpace(n.Value)
}

// strList accepts scalar or list of scalars.
func (d *decoder) strList(field string, n *yaml.Node) []string {
	n = resolve(n)
	if isNull(n) {
		return nil
	}
	switch n.Kind {
	case yaml.ScalarNode:
		if v := strings.TrimSpace(n.Value); len(v) > 0 {
			return []string{v}
		}
		return nil
	case yaml.SequenceNode:
		var res []string
		for i, c := range n.Content {
			if v := d.str(fmt.Sprintf("%s[%d]", field, i), c); len(v) > 0 {
				res = append(res, v)
			}
		}
		return res
	default:
		d.shape(field, n, "scalar or list")
		return nil
	}
}

func (d *decoder) multilingual(field string, n *yaml.Node) Multilingual {
	var m Multilingual
	n = resolve(n)
	if isNull(n) {
		return m
	}
	switch n.Kind {
	case yaml.ScalarNode, yaml.SequenceNode:
		if values := d.strList(field, n); len(values) > 0 {
			m = NewImplicit(values...)
		}
	case yaml.MappingNode:
		entries, _ := d.mapping(field, n)
		for _, e := range entries {
			lang := strings.TrimSpace(e.key)
			if len(lang) == 0 {
				d.log.Warn("Empty language key, ignoring value", zap.String("field", field))
				continue
			}
			if values := d.strList(field+"."+lang, e.val); len(values) > 0 {
				m.add(lang, values...)
			}
		}
	default:
		d.shape(field, n, "scalar, list or mapping")
	}
	return m
}

func (d *decoder) unknown(field, key string) {
	d.log.Warn("Unknown field, ignoring", zap.String("field", field), zap.String("key", key))
}

// Decode builds record from parsed document. Values of unexpected shape are
// reported and dropped, decoding itself never fails.
func Decode(n *yaml.Node, log *zap.Logger) *Record {
	d := &decoder{log: log}
	rec := &Record{Remove: Sections{}}

	entries, ok := d.mapping("record", n)
	if !ok {
		log.Warn("Record is empty")
		return rec
	}
	for _, e := range entries {
		switch e.key {
		case "type":
			rec.Type = d.str(e.key, e.val)
		case "title":
			rec.Title = d.multilingual(e.key, e.val)
		case "subtitle":
			rec.Subtitle = d.multilingual(e.key, e.val)
		case "authors":
			rec.Authors = d.authors(e.val)
		case "license", "licence":
			rec.License = d.license(e.key, e.val)
		case "notes":
			rec.Notes = d.notes(e.val)
		case "stamps":
			rec.Stamps = d.stamps(e.val)
		case "ID":
			rec.IDs = d.identifiers(e.val)
		case "infoDoc":
			rec.InfoDoc = d.infoDoc(e.val)
		case "series":
			rec.Series = d.series(e.val)
		case "extref":
			rec.ExtRef = d.extref(e.val)
		case "conference":
			rec.Conference = d.conference(e.val)
		case "editors":
			rec.Editors = d.strList(e.key, e.val)
		case "lang":
			rec.Lang = d.str(e.key, e.val)
		case "keywords":
			rec.Keywords = d.multilingual(e.key, e.val)
		case "codes":
			rec.Codes = d.codes(e.val)
		case "abstract":
			rec.Abstract = d.multilingual(e.key, e.val)
		case "structures":
			rec.Structures = d.structures(e.val)
		case "file":
			rec.File = d.str(e.key, e.val)
		case "remove":
			for _, name := range d.strList(e.key, e.val) {
				if s, ok := canonicalSection(name); ok {
					rec.Remove[s] = struct{}{}
				} else {
					log.Warn("Unknown section in remove list, ignoring", zap.String("section", name))
				}
			}
		default:
			d.unknown("record", e.key)
		}
	}
	return rec
}

func (d *decoder) authors(n *yaml.Node) []Author {
	n = resolve(n)
	if isNull(n) {
		return nil
	}
	items := []*yaml.Node{n}
	if n.Kind == yaml.SequenceNode {
		items = n.Content
	}
	var res []Author
	for i, item := range items {
		field := "authors[" + strconv.Itoa(i) + "]"
		entries, ok := d.mapping(field, item)
		if !ok {
			continue
		}
		var a Author
		for _, e := range entries {
			switch e.key {
			case "firstname", "first", "forename":
				a.First = d.str(field+"."+e.key, e.val)
			case "middle", "middlename":
				a.Middle = d.str(field+"."+e.key, e.val)
			case "lastname", "last", "surname":
				a.Last = d.str(field+"."+e.key, e.val)
			case "role":
				a.Role = d.str(field+"."+e.key, e.val)
			case "email":
				a.Email = d.str(field+"."+e.key, e.val)
			case "idhal":
				a.IDHal = d.str(field+"."+e.key, e.val)
			case "halauthor":
				a.HalAuthor = d.str(field+"."+e.key, e.val)
			case "url":
				a.URL = d.str(field+"."+e.key, e.val)
			case "orcid":
				a.ORCID = d.str(field+"."+e.key, e.val)
			case "arxiv":
				a.Arxiv = d.str(field+"."+e.key, e.val)
			case "researcherid":
				a.ResearcherID = d.str(field+"."+e.key, e.val)
			case "idref":
				a.IDRef = d.str(field+"."+e.key, e.val)
			case "affiliation":
				a.Affiliation = d.strList(field+"."+e.key, e.val)
			case "affiliationHAL":
				a.AffiliationHAL = d.strList(field+"."+e.key, e.val)
			default:
				d.unknown(field, e.key)
			}
		}
		res = append(res, a)
	}
	return res
}

func (d *decoder) license(field string, n *yaml.Node) string {
	n = resolve(n)
	if n != nil && n.Kind == yaml.MappingNode {
		entries, _ := d.mapping(field, n)
		for _, e := range entries {
			if e.key == "licence" || e.key == "license" {
				return d.str(field+"."+e.key, e.val)
			}
		}
		d.log.Warn("License mapping has no licence key", zap.String("field", field))
		return ""
	}
	return d.str(field, n)
}

func (d *decoder) notes(n *yaml.Node) *Notes {
	entries, ok := d.mapping("notes", n)
	if !ok {
		return nil
	}
	res := &Notes{}
	for _, e := range entries {
		field := "notes." + e.key
		switch e.key {
		case "audience":
			res.Audience = d.str(field, e.val)
		case "invited":
			res.Invited = d.str(field, e.val)
		case "popular":
			res.Popular = d.str(field, e.val)
		case "peer":
			res.Peer = d.str(field, e.val)
		case "proceedings":
			res.Proceedings = d.str(field, e.val)
		case "comment", "commentary":
			res.Comment = d.str(field, e.val)
		case "description":
			res.Description = d.str(field, e.val)
		default:
			d.unknown("notes", e.key)
		}
	}
	return res
}

// stamps accepts names directly or as {name: X} mappings.
func (d *decoder) stamps(n *yaml.Node) []string {
	n = resolve(n)
	if isNull(n) {
		return nil
	}
	items := []*yaml.Node{n}
	if n.Kind == yaml.SequenceNode {
		items = n.Content
	}
	var res []string
	for i, item := range items {
		item = resolve(item)
		field := "stamps[" + strconv.Itoa(i) + "]"
		if item != nil && item.Kind == yaml.MappingNode {
			entries, _ := d.mapping(field, item)
			for _, e := range entries {
				if e.key == "name" {
					if v := d.str(field+".name", e.val); len(v) > 0 {
						res = append(res, v)
					}
				}
			}
			continue
		}
		if v := d.str(field, item); len(v) > 0 {
			res = append(res, v)
		}
	}
	return res
}

func (d *decoder) identifiers(n *yaml.Node) *Identifiers {
	entries, ok := d.mapping("ID", n)
	if !ok {
		return nil
	}
	res := &Identifiers{}
	targets := map[string]*string{
		"nnt": &res.NNT, "isbn": &res.ISBN, "patentNumber": &res.PatentNumber,
		"reportNumber": &res.ReportNumber, "localRef": &res.LocalRef, "halJournalId": &res.HalJournalID,
		"journal": &res.Journal, "issn": &res.ISSN, "eissn": &res.EISSN, "j": &res.J,
		"m": &res.M, "booktitle": &res.BookTitle, "source": &res.Source,
	}
	for _, e := range entries {
		if p, ok := targets[e.key]; ok {
			*p = d.str("ID."+e.key, e.val)
			continue
		}
		d.unknown("ID", e.key)
	}
	return res
}

func (d *decoder) infoDoc(n *yaml.Node) *InfoDoc {
	entries, ok := d.mapping("infoDoc", n)
	if !ok {
		return nil
	}
	res := &InfoDoc{}
	targets := map[string]*string{
		"serie": &res.Serie, "volume": &res.Volume, "issue": &res.Issue, "pages": &res.Pages,
		"datePub": &res.DatePub, "dateEpub": &res.DateEpub, "whenWritten": &res.WhenWritten,
		"whenSubmitted": &res.WhenSubmitted, "whenReleased": &res.WhenReleased, "whenProduced": &res.WhenProduced,
	}
	for _, e := range entries {
		if e.key == "publisher" {
			res.Publishers = d.strList("infoDoc.publisher", e.val)
			continue
		}
		if p, ok := targets[e.key]; ok {
			*p = d.str("infoDoc."+e.key, e.val)
			continue
		}
		d.unknown("infoDoc", e.key)
	}
	return res
}

func (d *decoder) series(n *yaml.Node) *Series {
	entries, ok := d.mapping("series", n)
	if !ok {
		return nil
	}
	res := &Series{}
	for _, e := range entries {
		switch e.key {
		case "editor":
			res.Editor = d.str("series.editor", e.val)
		case "title":
			res.Title = d.str("series.title", e.val)
		default:
			d.unknown("series", e.key)
		}
	}
	return res
}

func (d *decoder) extref(n *yaml.Node) *ExtRef {
	entries, ok := d.mapping("extref", n)
	if !ok {
		return nil
	}
	res := &ExtRef{IDs: make(map[string]string)}
	links := make([]string, 10)
	for _, e := range entries {
		switch {
		case slices.Contains(ExtRefKinds, e.key):
			res.IDs[e.key] = d.str("extref."+e.key, e.val)
		case e.key == "publisher":
			res.Publishers = d.strList("extref.publisher", e.val)
		case len(e.key) == 5 && strings.HasPrefix(e.key, "link") && e.key[4] >= '0' && e.key[4] <= '9':
			links[e.key[4]-'0'] = d.str("extref."+e.key, e.val)
		default:
			d.unknown("extref", e.key)
		}
	}
	for _, l := range links {
		if len(l) > 0 {
			res.Links = append(res.Links, l)
		}
	}
	return res
}

func (d *decoder) conference(n *yaml.Node) *Conference {
	entries, ok := d.mapping("conference", n)
	if !ok {
		return nil
	}
	res := &Conference{}
	for _, e := range entries {
		field := "conference." + e.key
		switch e.key {
		case "title":
			res.Title = d.str(field, e.val)
		case "start":
			res.Start = d.str(field, e.val)
		case "end":
			res.End = d.str(field, e.val)
		case "location", "settlement":
			res.Location = d.str(field, e.val)
		case "country":
			res.Country = d.str(field, e.val)
		case "organizer", "organizers":
			res.Organizers = d.strList(field, e.val)
		default:
			d.unknown("conference", e.key)
		}
	}
	return res
}

func (d *decoder) codes(n *yaml.Node) *Codes {
	entries, ok := d.mapping("codes", n)
	if !ok {
		return nil
	}
	res := &Codes{}
	for _, e := range entries {
		field := "codes." + e.key
		switch e.key {
		case "classification":
			res.Classification = d.str(field, e.val)
		case "acm":
			res.ACM = d.str(field, e.val)
		case "mesh":
			res.MeSH = d.str(field, e.val)
		case "jel":
			res.JEL = d.str(field, e.val)
		case "halDomain":
			res.HalDomains = d.strList(field, e.val)
		default:
			d.unknown("codes", e.key)
		}
	}
	return res
}

func (d *decoder) structures(n *yaml.Node) []Structure {
	n = resolve(n)
	if isNull(n) {
		return nil
	}
	items := []*yaml.Node{n}
	if n.Kind == yaml.SequenceNode {
		items = n.Content
	}
	var res []Structure
	for i, item := range items {
		field := "structures[" + strconv.Itoa(i) + "]"
		entries, ok := d.mapping(field, item)
		if !ok {
			continue
		}
		var s Structure
		for _, e := range entries {
			switch e.key {
			case "id":
				s.ID = d.str(field+".id", e.val)
			case "name":
				s.Name = d.str(field+".name", e.val)
			case "acronym":
				s.Acronym = d.str(field+".acronym", e.val)
			case "type":
				s.Type = d.str(field+".type", e.val)
			case "url":
				s.URL = d.str(field+".url", e.val)
			case "address":
				s.Address = d.address(field+".address", e.val)
			default:
				d.unknown(field, e.key)
			}
		}
		if len(s.ID) == 0 {
			if len(s.Name) > 0 {
				s.ID = slug.Make(s.Name)
			} else {
				s.ID = strconv.Itoa(i + 1)
			}
			d.log.Warn("Structure has no id, generated one", zap.String("name", s.Name), zap.String("id", s.ID))
		}
		res = append(res, s)
	}
	return res
}

func (d *decoder) address(field string, n *yaml.Node) *Address {
	n = resolve(n)
	if isNull(n) {
		return nil
	}
	if n.Kind == yaml.ScalarNode {
		if v := strings.TrimSpace(n.Value); len(v) > 0 {
			return &Address{Line: v}
		}
		return nil
	}
	entries, ok := d.mapping(field, n)
	if !ok {
		return nil
	}
	res := &Address{}
	for _, e := range entries {
		switch e.key {
		case "line":
			res.Line = d.str(field+".line", e.val)
		case "country":
			res.Country = d.str(field+".country", e.val)
		default:
			d.unknown(field, e.key)
		}
	}
	return res
}
