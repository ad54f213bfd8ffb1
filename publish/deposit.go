package publish

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"halc/config"
	"halc/state"
	"halc/sword"
	"halc/tei"
)

// ErrNoCredentials is returned when deposit is attempted without login.
var ErrNoCredentials = fmt.Errorf("deposit credentials are not configured (use configuration file or %s and %s)", config.EnvLogin, config.EnvPassword)

// Deposit sends TEI document, optionally with PDF file, to HAL. With --halid
// existing deposit is updated.
func Deposit(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("deposit")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no TEI document has been specified")
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, unexpected arguments", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	opts := env.DepositOptions()
	opts.OnBehalfOf = cmd.String("on-behalf-of")
	if cmd.Bool("test") {
		opts.Test = true
	}
	_, err := deposit(ctx, env, src, cmd.String("pdf"), cmd.String("halid"), opts, log)
	return err
}

func deposit(ctx context.Context, env *state.LocalEnv, src, pdf, halID string, opts sword.Options, log *zap.Logger) (*sword.Receipt, error) {
	if len(env.Cfg.Deposit.Login) == 0 {
		return nil, ErrNoCredentials
	}

	doc, err := tei.ReadFile(src)
	if err != nil {
		return nil, err
	}
	if len(pdf) > 0 {
		if err := sword.CheckPDF(pdf); err != nil {
			return nil, err
		}
		env.Compiler().Attach(doc, filepath.Base(pdf))
	}

	dir, err := os.MkdirTemp("", "halc-deposit-")
	if err != nil {
		return nil, fmt.Errorf("unable to create working directory: %w", err)
	}
	defer os.RemoveAll(dir)

	p, err := sword.Prepare(doc, pdf, dir, opts, log)
	if err != nil {
		return nil, err
	}
	if err := env.Rpt.StoreCopy("deposit/"+filepath.Base(p.Path), p.Path); err != nil {
		log.Warn("Unable to put deposit into report", zap.Error(err))
	}

	r, err := env.DepositClient().Deposit(ctx, p, halID)
	if err != nil {
		return nil, err
	}
	log.Info("Deposit accepted",
		zap.Int("status", r.StatusCode),
		zap.String("id", r.ID),
		zap.String("version", r.Version),
		zap.String("password", r.Password),
		zap.String("link", r.Link))
	return r, nil
}
