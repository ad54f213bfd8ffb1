package record

import (
	"sort"
	"strings"

	"github.com/maruel/natural"

	"halc/utils/debug"
)

func dumpMultilingual(tw *debug.TreeWriter, depth int, label string, m Multilingual) {
	if m.Empty() {
		return
	}
	tw.Line(depth, "%s (implicit=%t)", label, m.Implicit)
	for _, lang := range m.Langs {
		tw.TextBlock(depth+1, lang, strings.Join(m.Values[lang], " | "))
	}
}

// Dump renders record outline for debug reports.
func (r *Record) Dump() string {
	tw := debug.NewTreeWriter()

	tw.TextBlock(0, "type", r.Type)
	dumpMultilingual(tw, 0, "title", r.Title)
	dumpMultilingual(tw, 0, "subtitle", r.Subtitle)
	for i, a := range r.Authors {
		tw.Line(0, "author #%d", i+1)
		tw.TextBlock(1, "name", strings.Join([]string{a.First, a.Middle, a.Last}, " "))
		if len(a.Affiliation) > 0 {
			tw.TextBlock(1, "affiliation", strings.Join(a.Affiliation, ", "))
		}
		if len(a.AffiliationHAL) > 0 {
			tw.TextBlock(1, "affiliationHAL", strings.Join(a.AffiliationHAL, ", "))
		}
	}
	if r.ExtRef != nil {
		keys := make([]string, 0, len(r.ExtRef.IDs))
		for k := range r.ExtRef.IDs {
			keys = append(keys, k)
		}
		sort.Sort(natural.StringSlice(keys))
		tw.Line(0, "extref")
		for _, k := range keys {
			tw.TextBlock(1, k, r.ExtRef.IDs[k])
		}
	}
	dumpMultilingual(tw, 0, "keywords", r.Keywords)
	dumpMultilingual(tw, 0, "abstract", r.Abstract)

	if len(r.Structures) > 0 {
		ids := make([]string, 0, len(r.Structures))
		for _, s := range r.Structures {
			ids = append(ids, s.ID)
		}
		sort.Sort(natural.StringSlice(ids))
		tw.Line(0, "structures")
		for _, id := range ids {
			s := r.StructureByID(id)
			tw.TextBlock(1, id, s.Name)
		}
	}
	if names := r.Remove.Names(); len(names) > 0 {
		tw.TextBlock(0, "remove", strings.Join(names, ", "))
	}
	return tw.String()
}
