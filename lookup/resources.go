package lookup

import (
	"slices"
	"strings"

	"halc/common"
)

// Resource describes single searchable collection of HAL API.
type Resource struct {
	Name string
	// Path is relative to API base URL.
	Path string
	// Queries maps allowed query keys to Solr templates, %s is replaced by
	// escaped value.
	Queries      map[string]string
	DefaultQuery string
	// Direct resources take query keys as URL parameters instead of Solr
	// expression.
	Direct        bool
	Fields        []string
	DefaultFields []string
	Formats       []common.ResultFormat
	DefaultFormat common.ResultFormat
}

var (
	jsonXML    = []common.ResultFormat{common.ResultFormatJson, common.ResultFormatXml}
	allFormats = []common.ResultFormat{common.ResultFormatJson, common.ResultFormatXml, common.ResultFormatXmlTei, common.ResultFormatCsv}
)

// Resources is the descriptor table of supported HAL API collections.
var Resources = map[string]*Resource{
	"document": {
		Path: "search/",
		Queries: map[string]string{
			"title":        `title_s:"%s"`,
			"title_approx": `title_t:(%s)`,
			"doi":          `doiId_s:"%s"`,
			"halid":        `halId_s:"%s"`,
			"author":       `authFullName_t:(%s)`,
			"text":         `text:(%s)`,
		},
		DefaultQuery:  "title_approx",
		Fields:        []string{"docid", "halId_s", "label_s", "title_s", "authFullName_s", "doiId_s", "uri_s", "docType_s", "producedDate_s", "journalTitle_s"},
		DefaultFields: []string{"docid", "halId_s", "label_s"},
		Formats:       allFormats,
		DefaultFormat: common.ResultFormatJson,
	},
	"journal": {
		Path: "ref/journal/",
		Queries: map[string]string{
			"title":        `title_s:"%s"`,
			"title_approx": `title_t:(%s)`,
			"issn":         `issn_s:"%s"`,
			"eissn":        `eissn_s:"%s"`,
		},
		DefaultQuery:  "title_approx",
		Fields:        []string{"docid", "title_s", "issn_s", "eissn_s", "publisher_s", "label_s", "valid_s"},
		DefaultFields: []string{"docid", "title_s", "label_s"},
		Formats:       jsonXML,
		DefaultFormat: common.ResultFormatJson,
	},
	"author": {
		Path: "ref/author/",
		Queries: map[string]string{
			"name":        `fullName_s:"%s"`,
			"name_approx": `fullName_t:(%s)`,
			"idhal":       `idHal_s:"%s"`,
			"orcid":       `orcidId_s:"%s"`,
		},
		DefaultQuery:  "name_approx",
		Fields:        []string{"docid", "fullName_s", "firstName_s", "lastName_s", "idHal_s", "orcidId_s", "email_s", "label_s", "valid_s"},
		DefaultFields: []string{"docid", "fullName_s", "label_s"},
		Formats:       jsonXML,
		DefaultFormat: common.ResultFormatJson,
	},
	"authorstructure": {
		Path: "search/authorstructure/",
		Queries: map[string]string{
			"firstname": "firstName_t",
			"lastname":  "lastName_t",
			"email":     "email_s",
		},
		DefaultQuery:  "lastname",
		Direct:        true,
		Formats:       []common.ResultFormat{common.ResultFormatXml},
		DefaultFormat: common.ResultFormatXml,
	},
	"structure": {
		Path: "ref/structure/",
		Queries: map[string]string{
			"name":        `name_s:"%s"`,
			"name_approx": `name_t:(%s)`,
			"acronym":     `acronym_s:"%s"`,
			"type":        `type_s:"%s"`,
		},
		DefaultQuery:  "name_approx",
		Fields:        []string{"docid", "name_s", "acronym_s", "type_s", "country_s", "label_s", "valid_s", "url_s"},
		DefaultFields: []string{"docid", "name_s", "label_s"},
		Formats:       []common.ResultFormat{common.ResultFormatJson, common.ResultFormatXml, common.ResultFormatXmlTei},
		DefaultFormat: common.ResultFormatJson,
	},
	"anrproject": {
		Path: "ref/anrproject/",
		Queries: map[string]string{
			"title":        `title_s:"%s"`,
			"title_approx": `title_t:(%s)`,
			"acronym":      `acronym_s:"%s"`,
			"reference":    `reference_s:"%s"`,
		},
		DefaultQuery:  "title_approx",
		Fields:        []string{"docid", "title_s", "acronym_s", "reference_s", "label_s", "valid_s"},
		DefaultFields: []string{"docid", "label_s"},
		Formats:       jsonXML,
		DefaultFormat: common.ResultFormatJson,
	},
	"europeanproject": {
		Path: "ref/europeanproject/",
		Queries: map[string]string{
			"title":        `title_s:"%s"`,
			"title_approx": `title_t:(%s)`,
			"acronym":      `acronym_s:"%s"`,
			"reference":    `reference_s:"%s"`,
		},
		DefaultQuery:  "title_approx",
		Fields:        []string{"docid", "title_s", "acronym_s", "reference_s", "callId_s", "label_s", "valid_s"},
		DefaultFields: []string{"docid", "label_s"},
		Formats:       jsonXML,
		DefaultFormat: common.ResultFormatJson,
	},
	"domain": {
		Path: "ref/domain/",
		Queries: map[string]string{
			"code":  `code_s:"%s"`,
			"label": `label_t:(%s)`,
		},
		DefaultQuery:  "label",
		Fields:        []string{"docid", "code_s", "label_s", "level_i", "parent_i"},
		DefaultFields: []string{"docid", "code_s", "label_s"},
		Formats:       jsonXML,
		DefaultFormat: common.ResultFormatJson,
	},
	"doctype": {
		Path: "ref/doctype/",
		Queries: map[string]string{
			"instance": "instance_s",
		},
		DefaultQuery:  "instance",
		Direct:        true,
		Formats:       jsonXML,
		DefaultFormat: common.ResultFormatJson,
	},
	"instance": {
		Path: "ref/instance/",
		Queries: map[string]string{
			"code": `code_s:"%s"`,
			"name": `name_t:(%s)`,
		},
		DefaultQuery:  "name",
		Fields:        []string{"docid", "code_s", "name_s", "url_s"},
		DefaultFields: []string{"docid", "code_s", "name_s"},
		Formats:       jsonXML,
		DefaultFormat: common.ResultFormatJson,
	},
	"metadata": {
		Path: "ref/metadata/",
		Queries: map[string]string{
			"name": `metaName_s:"%s"`,
		},
		DefaultQuery:  "name",
		Fields:        []string{"docid", "metaName_s", "metaValue_s", "metaLabel_s"},
		DefaultFields: []string{"docid", "metaName_s", "metaLabel_s"},
		Formats:       jsonXML,
		DefaultFormat: common.ResultFormatJson,
	},
	"metadatalist": {
		Path: "ref/metadataList/",
		Queries: map[string]string{
			"name":  `metaName_s:"%s"`,
			"value": `metaValue_s:"%s"`,
		},
		DefaultQuery:  "name",
		Fields:        []string{"docid", "metaName_s", "metaValue_s", "metaLabel_s"},
		DefaultFields: []string{"docid", "metaName_s", "metaValue_s"},
		Formats:       jsonXML,
		DefaultFormat: common.ResultFormatJson,
	},
}

func init() {
	for name, r := range Resources {
		r.Name = name
	}
}

// ResourceNames returns sorted list of supported resources.
func ResourceNames() []string {
	names := make([]string, 0, len(Resources))
	for name := range Resources {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// QueryKeys returns sorted list of query keys allowed for resource.
func (r *Resource) QueryKeys() []string {
	keys := make([]string, 0, len(r.Queries))
	for k := range r.Queries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (r *Resource) hasFormat(f common.ResultFormat) bool {
	return slices.Contains(r.Formats, f)
}

func (r *Resource) hasField(f string) bool {
	return f == "*" || slices.Contains(r.Fields, f)
}

var (
	exactEscaper  = strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	approxEscaper = strings.NewReplacer(
		`\`, `\\`, `+`, `\+`, `-`, `\-`, `&`, `\&`, `|`, `\|`, `!`, `\!`, `(`, `\(`, `)`, `\)`,
		`{`, `\{`, `}`, `\}`, `[`, `\[`, `]`, `\]`, `^`, `\^`, `"`, `\"`, `~`, `\~`, `*`, `\*`,
		`?`, `\?`, `:`, `\:`, `/`, `\/`,
	)
)

// expand fills Solr template with escaped value. Quoted templates only need
// quotes escaped, everything else is a term list.
func expand(template, value string) string {
	if strings.Contains(template, `"%s"`) {
		return strings.Replace(template, "%s", exactEscaper.Replace(value), 1)
	}
	return strings.Replace(template, "%s", approxEscaper.Replace(value), 1)
}
