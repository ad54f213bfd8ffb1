// Package tei implements small set of primitives to find, create-or-update
// and delete elements of HAL TEI document.
package tei

import (
	"maps"
	"slices"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"
)

const (
	NamespaceTEI = "http://www.tei-c.org/ns/1.0"
	NamespaceHAL = "http://hal.archives-ouvertes.fr/"
)

// Match selects descendant elements by tag and attributes.
type Match struct {
	Tag string
	// Attrs must be present on element. When Strict is set values must be
	// equal as well, otherwise only presence is checked.
	Attrs  map[string]string
	Strict bool
	// Not excludes elements carrying any of these attributes. Empty value
	// excludes attribute regardless of its value.
	Not map[string]string
}

// Node describes single element Upsert should produce.
type Node struct {
	Tag  string
	Text string
	// Unique attributes identify element among its siblings.
	Unique map[string]string
	// Extra attributes are set on element but do not take part in matching.
	Extra map[string]string
	// Not is passed to Match when looking for existing element.
	Not map[string]string
	// RemoveIfEmpty drops element when Text is empty.
	RemoveIfEmpty bool
	// ForceNew always creates new element, used for repeating values.
	ForceNew bool
	// MatchText requires existing element to have the same text, so repeating
	// values are not duplicated on second application.
	MatchText bool
	// Before lists sibling tags new element must precede, first one found
	// wins. Existing elements are never moved.
	Before []string
}

// Editor performs tree operations reporting problems to its logger.
type Editor struct {
	log *zap.Logger
}

func NewEditor(log *zap.Logger) *Editor {
	return &Editor{log: log}
}

func inNamespace(el *etree.Element) bool {
	ns := el.NamespaceURI()
	return ns == "" || ns == NamespaceTEI
}

func (m Match) accepts(el *etree.Element) bool {
	if el.Tag != m.Tag || !inNamespace(el) {
		return false
	}
	for k, v := range m.Attrs {
		a := el.SelectAttr(k)
		if a == nil {
			return false
		}
		if m.Strict && a.Value != v {
			return false
		}
	}
	for k, v := range m.Not {
		if a := el.SelectAttr(k); a != nil && (v == "" || a.Value == v) {
			return false
		}
	}
	return true
}

// Find returns all descendants of scope (in document order) accepted by m.
func (ed *Editor) Find(scope *etree.Element, m Match) []*etree.Element {
	if scope == nil {
		return nil
	}
	var res []*etree.Element
	var walk func(*etree.Element)
	walk = func(parent *etree.Element) {
		for _, child := range parent.ChildElements() {
			if m.accepts(child) {
				res = append(res, child)
			}
			walk(child)
		}
	}
	walk(scope)
	return res
}

// Upsert locates element described by n under scope or creates it as a direct
// child of scope, then sets attributes and text. It returns nil when element
// was removed (or not created) because of empty text.
func (ed *Editor) Upsert(scope *etree.Element, n Node) *etree.Element {
	if scope == nil {
		ed.log.Warn("Unable to place element, no parent", zap.String("tag", n.Tag))
		return nil
	}

	var el *etree.Element
	if !n.ForceNew {
		found := ed.Find(scope, Match{Tag: n.Tag, Attrs: n.Unique, Strict: true, Not: n.Not})
		if n.MatchText {
			found = slices.DeleteFunc(found, func(e *etree.Element) bool {
				return strings.TrimSpace(e.Text()) != n.Text
			})
		}
		switch len(found) {
		case 0:
		case 1:
			el = found[0]
		default:
			ed.log.Warn("Multiple elements match, using first one",
				zap.String("tag", n.Tag), zap.Any("attrs", n.Unique), zap.Int("count", len(found)))
			el = found[0]
		}
	}

	if len(n.Text) == 0 && n.RemoveIfEmpty {
		if el != nil {
			el.Parent().RemoveChild(el)
		}
		return nil
	}

	if el == nil {
		el = ed.create(scope, n.Tag, n.Before)
	}
	setAttrs(el, n.Unique)
	setAttrs(el, n.Extra)
	if len(n.Text) > 0 {
		el.SetText(n.Text)
	}
	return el
}

// Ensure is Upsert for plain containers.
func (ed *Editor) Ensure(scope *etree.Element, tag string, before ...string) *etree.Element {
	return ed.Upsert(scope, Node{Tag: tag, Before: before})
}

// Remove deletes every descendant of scope accepted by m and returns number of
// removed elements.
func (ed *Editor) Remove(scope *etree.Element, m Match) int {
	found := ed.Find(scope, m)
	for _, el := range found {
		if p := el.Parent(); p != nil {
			p.RemoveChild(el)
		}
	}
	if len(found) > 0 {
		ed.log.Debug("Elements removed", zap.String("tag", m.Tag), zap.Int("count", len(found)))
	}
	return len(found)
}

func (ed *Editor) create(scope *etree.Element, tag string, before []string) *etree.Element {
	qualified := tag
	if len(scope.Space) > 0 {
		qualified = scope.Space + ":" + tag
	}
	if len(before) > 0 {
		for _, child := range scope.ChildElements() {
			if slices.Contains(before, child.Tag) {
				el := etree.NewElement(qualified)
				scope.InsertChildAt(child.Index(), el)
				return el
			}
		}
	}
	return scope.CreateElement(qualified)
}

func setAttrs(el *etree.Element, attrs map[string]string) {
	for _, k := range slices.Sorted(maps.Keys(attrs)) {
		el.CreateAttr(k, attrs[k])
	}
}
