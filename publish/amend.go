package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/beevik/etree"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"halc/common"
	"halc/lookup"
	"halc/state"
	"halc/tei"
)

// ErrDocumentNotFound is returned when HAL has no document with requested id.
var ErrDocumentNotFound = errors.New("document not found in HAL")

// Amend applies record to existing TEI document, either local file (amended
// in place unless destination is given) or document downloaded from HAL.
func Amend(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("amend")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input record has been specified")
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}
	env.Overwrite = cmd.Bool("overwrite")

	teiPath, halID := cmd.String("tei"), cmd.String("halid")
	if err := checkSource(teiPath, halID); err != nil {
		return err
	}

	var (
		doc          *etree.Document
		source, name string
		err          error
	)
	dst := cmd.Args().Get(1)
	if len(teiPath) > 0 {
		if source, err = filepath.Abs(teiPath); err != nil {
			return err
		}
		if doc, err = readLocal(env, source); err != nil {
			return err
		}
		if len(dst) == 0 {
			dst = source
		}
		name = filepath.Base(source)
	} else {
		if doc, err = download(ctx, env, halID, log); err != nil {
			return err
		}
		name = defaultName(halID)
	}

	if dst, err = destination(dst, name); err != nil {
		return err
	}
	return build(ctx, env, src, dst, doc, source, log)
}

func readLocal(env *state.LocalEnv, path string) (*etree.Document, error) {
	doc, err := tei.ReadFile(path)
	if err != nil {
		return nil, err
	}
	// keep original in report, it is going to be replaced
	if err := env.Rpt.StoreCopy("tei/original-"+filepath.Base(path), path); err != nil {
		return nil, err
	}
	return doc, nil
}

// download fetches current TEI of HAL document.
func download(ctx context.Context, env *state.LocalEnv, halID string, log *zap.Logger) (*etree.Document, error) {
	log.Info("Downloading document", zap.String("halid", halID))
	res, err := env.LookupClient().Search(ctx, lookup.Request{
		Resource: "document",
		Query:    lookup.Query{{Key: "halid", Value: halID}},
		Format:   common.ResultFormatXmlTei,
		Rows:     1,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to download %s: %w", halID, err)
	}
	if res.Found == 0 {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, halID)
	}
	env.Rpt.StoreData("tei/original-"+defaultName(halID), res.Raw)
	doc, err := tei.Read(bytes.NewReader(res.Raw))
	if err != nil {
		return nil, fmt.Errorf("unable to use downloaded %s: %w", halID, err)
	}
	return doc, nil
}
