package lookup

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"halc/common"
)

// Doc is single document of JSON response.
type Doc map[string]any

// String returns field value as text, lists are joined with "; ".
func (d Doc) String(key string) string {
	switch v := d[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "true"
		}
		return "false"
	case []any:
		parts := make([]string, 0, len(v))
		for _, e := range v {
			parts = append(parts, Doc{"": e}.String(""))
		}
		return strings.Join(parts, "; ")
	default:
		return fmt.Sprint(v)
	}
}

// Result of search, only part matching requested format is filled.
type Result struct {
	Format common.ResultFormat
	Found  int
	Docs   []Doc
	Tree   *etree.Document
	Table  [][]string
	Raw    []byte
}

type jsonResponse struct {
	Response *struct {
		NumFound int   `json:"numFound"`
		Docs     []Doc `json:"docs"`
	} `json:"response"`
	Error *struct {
		Msg string `json:"msg"`
	} `json:"error"`
}

func decode(format common.ResultFormat, body []byte) (*Result, error) {
	res := &Result{Format: format, Raw: body}
	switch {
	case format.IsXML():
		doc := etree.NewDocument()
		if err := doc.ReadFromBytes(body); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
		}
		if doc.Root() == nil {
			return nil, fmt.Errorf("%w: empty xml document", ErrInvalidResponse)
		}
		res.Tree = doc
		res.Found = xmlFound(doc)
	case format == common.ResultFormatCsv:
		records, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
		}
		res.Table = records
		if len(records) > 0 {
			res.Found = len(records) - 1
		}
	default:
		var jr jsonResponse
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		if err := dec.Decode(&jr); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
		}
		if jr.Error != nil {
			return nil, fmt.Errorf("%w: %s", ErrLookupFailed, jr.Error.Msg)
		}
		if jr.Response == nil {
			return nil, fmt.Errorf("%w: no response object", ErrInvalidResponse)
		}
		res.Found = jr.Response.NumFound
		res.Docs = jr.Response.Docs
	}
	return res, nil
}

// xmlFound reads number of results from Solr xml response, tei responses
// carry it in listBibl/@n.
func xmlFound(doc *etree.Document) int {
	var n string
	if el := doc.FindElement("//result[@numFound]"); el != nil {
		n = el.SelectAttrValue("numFound", "")
	} else if el := doc.FindElement("//listBibl[@n]"); el != nil {
		n = el.SelectAttrValue("n", "")
	}
	var found int
	fmt.Sscan(n, &found)
	return found
}
