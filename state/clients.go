package state

import (
	"net/http"

	"halc/compiler"
	"halc/lookup"
	"halc/sword"
)

// LookupClient returns HAL API client configured from Cfg. Client is created
// once so rate limit is shared by all users.
func (e *LocalEnv) LookupClient() *lookup.Client {
	if e.lookup == nil {
		lc := e.Cfg.Lookup
		e.lookup = lookup.NewClient(e.Log.Named("lookup"),
			lookup.WithBaseURL(lc.BaseURL),
			lookup.WithTimeout(lc.Timeout),
			lookup.WithRateLimit(lc.RateLimit),
			lookup.WithRows(lc.Rows),
		)
	}
	return e.lookup
}

// Compiler returns record compiler with resolution enabled according to Cfg.
func (e *LocalEnv) Compiler() *compiler.Compiler {
	opts := compiler.Options{
		ResolveJournals:     e.Cfg.Compiler.ResolveJournals,
		ResolveAffiliations: e.Cfg.Compiler.ResolveAffiliations,
	}
	var res *lookup.Resolver
	if opts.ResolveJournals || opts.ResolveAffiliations {
		res = lookup.NewResolver(e.LookupClient(), e.Log.Named("resolver"))
	}
	if res == nil {
		return compiler.New(nil, opts, e.Log.Named("compiler"))
	}
	return compiler.New(res, opts, e.Log.Named("compiler"))
}

// DepositClient returns SWORD client for configured server and credentials.
func (e *LocalEnv) DepositClient() *sword.Client {
	if e.sword == nil {
		dc := e.Cfg.Deposit
		opts := []sword.ClientOption{
			sword.WithBaseURL(dc.URL),
			sword.WithCredentials(dc.Login, dc.Password.Value()),
		}
		if dc.Timeout > 0 {
			opts = append(opts, sword.WithHTTPClient(&http.Client{Timeout: dc.Timeout}))
		}
		e.sword = sword.NewClient(dc.Server, e.Log.Named("sword"), opts...)
	}
	return e.sword
}

// DepositOptions returns deposit switches from Cfg.
func (e *LocalEnv) DepositOptions() sword.Options {
	dc := e.Cfg.Deposit
	return sword.Options{
		Completion:  dc.Completion,
		ExportArxiv: dc.ExportArxiv,
		ExportPMC:   dc.ExportPMC,
		HideRePEc:   dc.HideRePEc,
		HideOAI:     dc.HideOAI,
		Test:        dc.Test,
	}
}
