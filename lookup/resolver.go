package lookup

import (
	"context"
	"strings"

	"github.com/xrash/smetrics"
	"go.uber.org/zap"

	"halc/common"
)

// MinSimilarity is the lowest Jaro-Winkler similarity accepted for candidates
// found by approximate search.
const MinSimilarity = 0.6

// Resolver finds HAL identifiers of journals and structures by name.
type Resolver struct {
	c   *Client
	log *zap.Logger
}

func NewResolver(c *Client, log *zap.Logger) *Resolver {
	return &Resolver{c: c, log: log}
}

// JournalID returns HAL docid of journal with given title.
func (r *Resolver) JournalID(ctx context.Context, name string) (string, bool) {
	return r.resolve(ctx, "journal", "title", "title_approx", "title_s", name)
}

// StructureID returns HAL docid of structure with given name.
func (r *Resolver) StructureID(ctx context.Context, name string) (string, bool) {
	return r.resolve(ctx, "structure", "name", "name_approx", "name_s", name)
}

func (r *Resolver) search(ctx context.Context, resource, key, label, name string) ([]Doc, bool) {
	res, err := r.c.Search(ctx, Request{
		Resource: resource,
		Query:    Query{{Key: key, Value: name}},
		Fields:   []string{"docid", label},
		Format:   common.ResultFormatJson,
	})
	if err != nil {
		r.log.Warn("Lookup failed", zap.String("resource", resource), zap.String("name", name), zap.Error(err))
		return nil, false
	}
	return res.Docs, true
}

func (r *Resolver) resolve(ctx context.Context, resource, exact, approx, label, name string) (string, bool) {
	name = strings.TrimSpace(name)
	if len(name) == 0 {
		return "", false
	}

	docs, ok := r.search(ctx, resource, exact, label, name)
	if !ok {
		return "", false
	}
	fuzzy := len(docs) == 0
	if fuzzy {
		if docs, ok = r.search(ctx, resource, approx, label, name); !ok {
			return "", false
		}
	}
	if len(docs) == 0 {
		r.log.Debug("Nothing found", zap.String("resource", resource), zap.String("name", name))
		return "", false
	}
	if !fuzzy && len(docs) == 1 {
		return docs[0].String("docid"), len(docs[0].String("docid")) > 0
	}

	doc, score := closest(name, label, docs)
	if fuzzy && score < MinSimilarity {
		r.log.Debug("No close enough candidate", zap.String("resource", resource), zap.String("name", name), zap.Float64("score", score))
		return "", false
	}
	id := doc.String("docid")
	r.log.Debug("Candidate selected", zap.String("resource", resource), zap.String("name", name),
		zap.String("candidate", doc.String(label)), zap.String("id", id), zap.Float64("score", score), zap.Int("candidates", len(docs)))
	return id, len(id) > 0
}

// Similarity returns Jaro-Winkler similarity of case folded strings.
func Similarity(a, b string) float64 {
	return smetrics.JaroWinkler(strings.ToLower(a), strings.ToLower(b), 0.7, 4)
}

// closest returns the first candidate with the highest similarity to name.
func closest(name, label string, docs []Doc) (Doc, float64) {
	var (
		best  Doc
		score = -1.0
	)
	for _, d := range docs {
		if s := Similarity(name, d.String(label)); s > score {
			best, score = d, s
		}
	}
	return best, score
}
