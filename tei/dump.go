package tei

import (
	"strings"

	"github.com/beevik/etree"

	"halc/utils/debug"
)

// Dump renders compact outline of the element subtree, used in debug reports.
func Dump(el *etree.Element) string {
	tw := debug.NewTreeWriter()
	if el == nil {
		return tw.String()
	}
	var walk func(int, *etree.Element)
	walk = func(depth int, e *etree.Element) {
		pairs := make([]string, 0, len(e.Attr)*2)
		for _, a := range e.Attr {
			if a.Space == "xmlns" || (a.Space == "" && a.Key == "xmlns") {
				continue
			}
			pairs = append(pairs, a.FullKey(), a.Value)
		}
		tw.Element(depth, e.FullTag(), pairs...)
		if text := strings.TrimSpace(e.Text()); len(text) > 0 {
			tw.TextBlock(depth+1, "text", text)
		}
		for _, child := range e.ChildElements() {
			walk(depth+1, child)
		}
	}
	walk(0, el)
	return tw.String()
}
