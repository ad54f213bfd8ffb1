// Package common keeps small types shared between configuration, lookup and
// deposit code so neither has to import the other.
package common

// Deposit endpoint selection.
// ENUM(preprod, prod)
type Server int

// Format requested from search service.
// ENUM(json, xml, xml-tei, csv)
type ResultFormat int

// WireName returns value expected by search service "wt" parameter.
func (f ResultFormat) WireName() string {
	switch f {
	case ResultFormatXmlTei:
		return "xml-tei"
	case ResultFormatXml:
		return "xml"
	case ResultFormatCsv:
		return "csv"
	default:
		return "json"
	}
}

// IsXML reports whether response body is an XML document.
func (f ResultFormat) IsXML() bool {
	return f == ResultFormatXml || f == ResultFormatXmlTei
}
