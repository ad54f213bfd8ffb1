package mapper

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/gosimple/unidecode"
	"go.uber.org/zap"

	"halc/record"
	"halc/tei"
)

// DefaultStructType is used when structure type could not be inferred.
const DefaultStructType = "institution"

var structKeywords = []struct {
	kind  string
	words []string
}{
	{"institution", []string{"universite", "university", "univ", "ecole", "school"}},
	// laboratories must be declared with dependency on institution, so they
	// are posted as institutions
	{"institution", []string{"laboratoire", "laboratory", "lab"}},
	{"institution", []string{"institute", "institution"}},
	{"institution", []string{"department", "departement"}},
	{"researchteam", []string{"team"}},
}

// StructType infers HAL structure type from its name.
func StructType(name string) (string, bool) {
	folded := strings.ToLower(unidecode.Unidecode(name))
	for _, k := range structKeywords {
		for _, w := range k.words {
			if strings.Contains(folded, w) {
				return k.kind, true
			}
		}
	}
	return DefaultStructType, false
}

// Structures writes local structures into listOrg of back matter.
func (m *Mapper) Structures(scope *etree.Element, structures []record.Structure, clear bool) []*etree.Element {
	if clear {
		m.ed.Remove(scope, tei.Match{Tag: "org"})
	}
	if len(structures) == 0 {
		m.log.Debug("No structures provided")
		return nil
	}

	var res []*etree.Element
	for _, s := range structures {
		kind := s.Type
		if len(kind) == 0 {
			var ok bool
			if kind, ok = StructType(s.Name); !ok {
				m.log.Debug("Unable to infer structure type, using default", zap.String("name", s.Name), zap.String("type", kind))
			}
		}
		org := m.ed.Upsert(scope, tei.Node{
			Tag:    "org",
			Unique: attrs("xml:id", strings.TrimPrefix(LocalStructRef(s.ID), "#")),
			Extra:  attrs("type", kind),
		})
		if len(s.Name) > 0 {
			m.ed.Upsert(org, tei.Node{Tag: "orgName", Text: s.Name, Not: attrs("type", ""), Before: []string{"desc"}})
		} else {
			m.log.Warn("Structure has no name", zap.String("id", s.ID))
		}
		m.ed.Upsert(org, tei.Node{Tag: "orgName", Text: s.Acronym, Unique: attrs("type", "acronym"), RemoveIfEmpty: true, Before: []string{"desc"}})
		if s.Address != nil || len(s.URL) > 0 {
			desc := m.ed.Ensure(org, "desc")
			if s.Address != nil {
				m.address(m.ed.Ensure(desc, "address", "ref"), *s.Address)
			}
			if len(s.URL) > 0 {
				m.ed.Upsert(desc, tei.Node{Tag: "ref", Unique: attrs("type", "url"), Extra: attrs("target", s.URL)})
			}
		}
		res = append(res, org)
	}
	return res
}

func (m *Mapper) address(scope *etree.Element, addr record.Address) {
	if len(addr.Line) > 0 {
		m.ed.Upsert(scope, tei.Node{Tag: "addrLine", Text: addr.Line, Before: []string{"country"}})
	}
	var (
		code, name string
		ok         bool
	)
	switch {
	case len(addr.Country) > 0:
		if code, name, ok = Country(addr.Country); !ok {
			m.log.Warn("Unknown country, ignoring", zap.String("country", addr.Country))
		}
	case len(addr.Line) > 0:
		if code, name, ok = countryFromAddress(addr.Line); !ok {
			m.log.Debug("Unable to find country in address", zap.String("address", addr.Line))
		}
	}
	if ok {
		m.ed.Upsert(scope, tei.Node{Tag: "country", Text: name, Extra: attrs("key", code)})
	}
}
