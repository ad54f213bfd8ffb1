package mapper

import (
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"halc/tei"
)

const ccLicenses = "https://creativecommons.org/licenses/"

// LicenseURL turns short Creative Commons license name ("by", "CC-BY-NC",
// "by-sa") into its canonical URL. Full URLs are returned unchanged.
func LicenseURL(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://") {
		return name
	}
	name = strings.ToLower(strings.Join(strings.Fields(name), "-"))
	name = strings.TrimPrefix(name, "cc-")
	name = strings.TrimPrefix(name, "cc")
	return ccLicenses + strings.Trim(name, "-/") + "/"
}

// License writes availability/licence in publicationStmt.
func (m *Mapper) License(scope *etree.Element, name string, clear bool) []*etree.Element {
	if clear {
		m.ed.Remove(scope, tei.Match{Tag: "licence"})
	}
	if len(name) == 0 {
		m.log.Debug("No licence provided")
		return nil
	}
	url := LicenseURL(name)
	if !strings.HasPrefix(url, ccLicenses) {
		m.log.Warn("Licence is not Creative Commons one, HAL may reject it", zap.String("licence", url))
	}
	avail := m.ed.Ensure(scope, "availability")
	return appendNotNil(nil, m.ed.Upsert(avail, tei.Node{Tag: "licence", Extra: attrs("target", url)}))
}
