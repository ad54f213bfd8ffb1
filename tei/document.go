package tei

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

// Sections are fixed containers of HAL TEI document every mapper writes into.
type Sections struct {
	Root            *etree.Element
	Text            *etree.Element
	Body            *etree.Element
	ListBibl        *etree.Element
	BiblFull        *etree.Element
	TitleStmt       *etree.Element
	PublicationStmt *etree.Element
	NotesStmt       *etree.Element
	SourceDesc      *etree.Element
	BiblStruct      *etree.Element
	Analytic        *etree.Element
	Monogr          *etree.Element
	Imprint         *etree.Element
	Series          *etree.Element
	ProfileDesc     *etree.Element
	LangUsage       *etree.Element
	TextClass       *etree.Element
	Back            *etree.Element
	ListOrg         *etree.Element
}

const xmlDecl = `version="1.0" encoding="UTF-8"`

// NewDocument returns empty document with namespaced TEI root.
func NewDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", xmlDecl)
	root := doc.CreateElement("TEI")
	root.CreateAttr("xmlns", NamespaceTEI)
	root.CreateAttr("xmlns:hal", NamespaceHAL)
	return doc
}

// Read parses existing TEI document. Documents in legacy encodings are
// converted according to their XML declaration.
func Read(r io.Reader) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("unable to parse TEI document: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("TEI document is empty")
	}
	if root.Tag != "TEI" {
		return nil, fmt.Errorf("unexpected document root <%s>, expected <TEI>", root.FullTag())
	}
	// content is UTF-8 now, declaration must follow
	for _, t := range doc.Child {
		if pi, ok := t.(*etree.ProcInst); ok && pi.Target == "xml" {
			pi.Inst = xmlDecl
		}
	}
	return doc, nil
}

func ReadFile(path string) (*etree.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open TEI document: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Write serializes document with two spaces indentation.
func Write(doc *etree.Document, w io.Writer) error {
	doc.Indent(2)
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("unable to write TEI document: %w", err)
	}
	return nil
}

func Bytes(doc *etree.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(doc, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Skeleton makes sure all fixed containers exist and returns them. It is safe
// to call on partially filled or already complete documents.
func (ed *Editor) Skeleton(doc *etree.Document) *Sections {
	root := doc.Root()
	if root == nil {
		root = doc.CreateElement("TEI")
		root.CreateAttr("xmlns", NamespaceTEI)
		root.CreateAttr("xmlns:hal", NamespaceHAL)
	} else if root.Tag != "TEI" {
		ed.log.Warn("Unexpected document root, continuing anyway", zap.String("root", root.FullTag()))
	}

	s := &Sections{Root: root}
	s.Text = ed.Ensure(root, "text")
	s.Body = ed.Ensure(s.Text, "body", "back")
	s.ListBibl = ed.Ensure(s.Body, "listBibl")
	s.BiblFull = ed.Ensure(s.ListBibl, "biblFull")
	s.TitleStmt = ed.Ensure(s.BiblFull, "titleStmt", "editionStmt", "publicationStmt", "seriesStmt", "notesStmt", "sourceDesc", "profileDesc")
	s.PublicationStmt = ed.Ensure(s.BiblFull, "publicationStmt", "seriesStmt", "notesStmt", "sourceDesc", "profileDesc")
	s.NotesStmt = ed.Ensure(s.BiblFull, "notesStmt", "sourceDesc", "profileDesc")
	s.SourceDesc = ed.Ensure(s.BiblFull, "sourceDesc", "profileDesc")
	s.BiblStruct = ed.Ensure(s.SourceDesc, "biblStruct")
	s.Analytic = ed.Ensure(s.BiblStruct, "analytic", "monogr", "series")
	s.Monogr = ed.Ensure(s.BiblStruct, "monogr", "series")
	s.Imprint = ed.Ensure(s.Monogr, "imprint")
	s.Series = ed.Ensure(s.BiblStruct, "series", "idno", "ref")
	s.ProfileDesc = ed.Ensure(s.BiblFull, "profileDesc")
	s.LangUsage = ed.Ensure(s.ProfileDesc, "langUsage", "textClass", "abstract")
	s.TextClass = ed.Ensure(s.ProfileDesc, "textClass", "abstract")
	s.Back = ed.Ensure(s.Text, "back")
	s.ListOrg = ed.Upsert(s.Back, Node{Tag: "listOrg", Unique: map[string]string{"type": "structures"}})
	return s
}
