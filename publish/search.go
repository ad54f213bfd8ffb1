package publish

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"halc/common"
	"halc/lookup"
	"halc/state"
)

// Search queries one of HAL API resources and prints results.
func Search(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("search")

	if cmd.Args().Len() == 0 {
		return fmt.Errorf("no resource has been specified (known: %s)", strings.Join(lookup.ResourceNames(), ", "))
	}
	query, err := lookup.ParseQuery(cmd.Args().Slice()[1:])
	if err != nil {
		return err
	}
	format, err := common.ParseResultFormat(cmd.String("format"))
	if err != nil {
		log.Warn("Unknown result format requested, switching to json", zap.Error(err))
		format = common.ResultFormatJson
	}
	var fields []string
	for _, f := range strings.Split(cmd.String("fields"), ",") {
		if f = strings.TrimSpace(f); len(f) > 0 {
			fields = append(fields, f)
		}
	}

	out := io.Writer(os.Stdout)
	if fname := cmd.String("output"); len(fname) > 0 {
		f, err := os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create output file '%s': %w", fname, err)
		}
		defer f.Close()
		out = f
	}

	req := lookup.Request{
		Resource: cmd.Args().Get(0),
		Query:    query,
		Fields:   fields,
		Format:   format,
		Rows:     int(cmd.Int("rows")),
	}
	return search(ctx, env, req, out, log)
}

func search(ctx context.Context, env *state.LocalEnv, req lookup.Request, out io.Writer, log *zap.Logger) error {
	res, err := env.LookupClient().Search(ctx, req)
	if err != nil {
		return err
	}
	env.Rpt.StoreData("search/response."+res.Format.String(), res.Raw)
	log.Info("Search completed", zap.String("resource", req.Resource), zap.Int("found", res.Found))

	switch {
	case res.Format.IsXML():
		res.Tree.Indent(2)
		_, err = res.Tree.WriteTo(out)
	case res.Format == common.ResultFormatCsv:
		w := csv.NewWriter(out)
		err = w.WriteAll(res.Table)
	default:
		err = writeDocs(out, lookup.Resources[req.Resource].Ordered(req.Fields), res.Docs)
	}
	if err != nil {
		return fmt.Errorf("unable to output results: %w", err)
	}
	return nil
}

// writeDocs outputs JSON documents as a table. Columns are requested fields
// in descriptor order followed by any other returned fields in natural order.
func writeDocs(out io.Writer, fields []string, docs []lookup.Doc) error {
	columns := slices.Clone(fields)
	var extra []string
	for _, d := range docs {
		for k := range d {
			if !slices.Contains(columns, k) && !slices.Contains(extra, k) {
				extra = append(extra, k)
			}
		}
	}
	sort.Sort(natural.StringSlice(extra))
	columns = append(columns, extra...)
	if len(columns) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(columns, "\t"))
	row := make([]string, len(columns))
	for _, d := range docs {
		for i, c := range columns {
			row[i] = d.String(c)
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}
