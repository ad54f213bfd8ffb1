// Package publish implements program commands: building and amending HAL TEI
// documents, searching HAL and depositing documents.
package publish

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"halc/config"
	"halc/state"
	"halc/tei"
)

// ErrDestinationExists is returned when output file is present and overwrite
// was not requested.
var ErrDestinationExists = errors.New("destination already exists")

const teiExt = ".xml"

// defaultName derives document file name from source path or identifier.
func defaultName(src string) string {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return config.CleanFileName(base) + teiExt
}

// destination returns absolute output path. Empty dst means current working
// directory, directories get name.
func destination(dst, name string) (string, error) {
	if len(dst) == 0 {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("unable to get working directory: %w", err)
		}
		dst = wd
	}
	dst, err := filepath.Abs(dst)
	if err != nil {
		return "", err
	}
	if fi, err := os.Stat(dst); err == nil && fi.IsDir() {
		dst = filepath.Join(dst, name)
	}
	return dst, nil
}

// writeDocument saves doc to path. Existing files are replaced only when
// overwrite is allowed or path is the document source being amended.
func writeDocument(env *state.LocalEnv, doc *etree.Document, path, source string, log *zap.Logger) error {
	if _, err := os.Stat(path); err == nil && !env.Overwrite && path != source {
		return fmt.Errorf("%w: %s", ErrDestinationExists, path)
	}
	data, err := tei.Bytes(doc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("unable to create destination directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("unable to write document: %w", err)
	}
	env.Rpt.StoreData("tei/"+filepath.Base(path), data)
	env.Rpt.StoreData("tei/"+filepath.Base(path)+".outline.txt", []byte(tei.Dump(doc.Root())))
	log.Info("Document written", zap.String("file", path), zap.Int("size", len(data)))
	return nil
}
