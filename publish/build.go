package publish

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/beevik/etree"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"halc/record"
	"halc/state"
)

// Build creates new TEI document from record.
func Build(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("build")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input record has been specified")
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}
	env.Overwrite = cmd.Bool("overwrite")

	dst, err := destination(cmd.Args().Get(1), defaultName(src))
	if err != nil {
		return err
	}
	return build(ctx, env, src, dst, nil, "", log)
}

// build compiles record into doc (new one when nil) and writes result to dst.
func build(ctx context.Context, env *state.LocalEnv, src, dst string, doc *etree.Document, source string, log *zap.Logger) error {
	rec, err := loadRecord(env, src, log)
	if err != nil {
		return err
	}

	log.Info("Processing starting", zap.String("record", src), zap.String("destination", dst))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	doc = env.Compiler().Compile(ctx, doc, rec)
	if err := ctx.Err(); err != nil {
		return err
	}
	return writeDocument(env, doc, dst, source, log)
}

func loadRecord(env *state.LocalEnv, path string, log *zap.Logger) (*record.Record, error) {
	rec, err := record.Load(path, log.Named("record"))
	if err != nil {
		return nil, err
	}
	if err := env.Rpt.StoreCopy("record/"+filepath.Base(path), path); err != nil {
		log.Warn("Unable to put record into report", zap.Error(err))
	}
	env.Rpt.StoreData("record/outline.txt", []byte(rec.Dump()))
	if len(rec.Remove) > 0 {
		log.Debug("Sections to be rebuilt", zap.Strings("remove", rec.Remove.Names()))
	}
	return rec, nil
}

// checkSource makes sure exactly one document source was given.
func checkSource(teiPath, halID string) error {
	switch {
	case len(teiPath) > 0 && len(halID) > 0:
		return fmt.Errorf("only one of --tei and --halid could be specified")
	case len(teiPath) == 0 && len(halID) == 0:
		return fmt.Errorf("document to amend must be specified with --tei or --halid")
	}
	return nil
}
