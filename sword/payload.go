// Package sword prepares deposit packages and submits them to HAL SWORD
// endpoint.
package sword

import (
	"archive/zip"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/beevik/etree"
	"github.com/h2non/filetype"
	fixzip "github.com/hidez8891/zip"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"halc/tei"
)

const (
	XMLName   = "upload.xml"
	ZIPName   = "upload.zip"
	Packaging = "http://purl.org/net/sword-types/AOfr"
)

// Options are deposit switches sent as request headers.
type Options struct {
	OnBehalfOf  string
	Completion  string
	ExportArxiv bool
	ExportPMC   bool
	HideRePEc   bool
	HideOAI     bool
	Test        bool
}

// Payload is prepared deposit: file to send and headers describing it.
type Payload struct {
	Path   string
	Header http.Header
}

func flag(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// CheckPDF verifies file content is PDF.
func CheckPDF(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("unable to open file: %w", err)
	}
	defer f.Close()

	head := make([]byte, 261)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return fmt.Errorf("unable to read file: %w", err)
	}
	if !filetype.Is(head[:n], "pdf") {
		return fmt.Errorf("%w: %s", ErrNotPDF, path)
	}
	return nil
}

// Prepare writes TEI document (and archive with PDF when pdf is not empty)
// into dir and returns payload ready to be sent. Document must already
// reference PDF by its base name.
func Prepare(doc *etree.Document, pdf, dir string, opts Options, log *zap.Logger) (*Payload, error) {
	xmlPath := filepath.Join(dir, XMLName)
	out, err := os.Create(xmlPath)
	if err != nil {
		return nil, fmt.Errorf("unable to create deposit document: %w", err)
	}
	if err := tei.Write(doc, out); err != nil {
		out.Close()
		return nil, fmt.Errorf("unable to write deposit document: %w", err)
	}
	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("unable to write deposit document: %w", err)
	}

	h := http.Header{}
	h.Set("Packaging", Packaging)
	if len(opts.OnBehalfOf) > 0 {
		h.Set("On-Behalf-Of", opts.OnBehalfOf)
	}
	if len(opts.Completion) > 0 {
		h.Set("X-Allow-Completion", opts.Completion)
	}
	h.Set("X-test", "0")
	if opts.Test {
		log.Warn("Test mode activated, deposit will not be stored")
		h.Set("X-test", "1")
	}

	if len(pdf) == 0 {
		h.Set("Content-Type", "text/xml")
		h.Set("Content-Disposition", "attachment; filename="+XMLName)
		return &Payload{Path: xmlPath, Header: h}, nil
	}

	if err := CheckPDF(pdf); err != nil {
		return nil, err
	}
	zipPath := filepath.Join(dir, ZIPName)
	if err := buildZIP(xmlPath, pdf, zipPath); err != nil {
		return nil, err
	}
	log.Debug("Deposit archive created", zap.String("path", zipPath))

	h.Set("Content-Type", "application/zip")
	h.Set("Content-Disposition", "attachment; filename="+XMLName)
	h.Set("Export-To-Arxiv", flag(opts.ExportArxiv))
	h.Set("Export-To-PMC", flag(opts.ExportPMC))
	h.Set("Hide-For-RePEc", flag(opts.HideRePEc))
	h.Set("Hide-In-OAI", flag(opts.HideOAI))
	return &Payload{Path: zipPath, Header: h}, nil
}

func buildZIP(xmlPath, pdfPath, to string) error {
	tmp, err := os.CreateTemp(filepath.Dir(to), "deposit-*.zip")
	if err != nil {
		return fmt.Errorf("unable to create temporary archive: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	zw := zip.NewWriter(tmp)
	for _, src := range []string{xmlPath, pdfPath} {
		if err := addFile(zw, src); err != nil {
			tmp.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("unable to finalize archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("unable to finalize archive: %w", err)
	}
	return copyZipWithoutDataDescriptors(tmpName, to)
}

func addFile(zw *zip.Writer, src string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("unable to open %s: %w", src, err)
	}
	defer in.Close()

	w, err := zw.CreateHeader(&zip.FileHeader{Name: filepath.Base(src), Method: zip.Deflate})
	if err != nil {
		return fmt.Errorf("unable to add %s to archive: %w", src, err)
	}
	if _, err := io.Copy(w, in); err != nil {
		return fmt.Errorf("unable to add %s to archive: %w", src, err)
	}
	return nil
}

// HAL unpacks deposits with tools which do not understand data descriptors.
func copyZipWithoutDataDescriptors(from, to string) error {

	out, err := os.Create(to)
	if err != nil {
		return fmt.Errorf("unable to create target file (%s): %w", to, err)
	}
	defer out.Close()

	r, err := fixzip.OpenReader(from)
	if err != nil {
		return fmt.Errorf("unable to read archive file (%s): %w", from, err)
	}
	defer r.Close()

	w := fixzip.NewWriter(out)
	for _, file := range r.File {
		file.Flags &= ^fixzip.FlagDataDescriptor
		if err := w.CopyFile(file); err != nil {
			return multierr.Append(fmt.Errorf("unable to write target file (%s): %w", to, err), w.Close())
		}
	}
	return multierr.Append(w.Close(), out.Sync())
}
