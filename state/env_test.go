package state

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"halc/common"
	"halc/config"
)

func newTestEnv(t *testing.T) *LocalEnv {
	t.Helper()
	env := EnvFromContext(ContextWithEnv(context.Background()))
	env.Log = zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	env.Cfg = &config.Config{
		Version: 1,
		Lookup: config.LookupConfig{
			BaseURL:   "http://127.0.0.1:1/",
			Rows:      10,
			Timeout:   time.Second,
			RateLimit: 0,
		},
		Deposit: config.DepositConfig{
			Server:     common.ServerPreprod,
			Login:      "jdoe",
			Password:   "hunter2",
			Completion: "idref",
			ExportPMC:  true,
			Test:       true,
			Timeout:    time.Minute,
		},
	}
	return env
}

func TestContextWithEnv(t *testing.T) {
	ctx := ContextWithEnv(context.Background())
	env := EnvFromContext(ctx)
	if env == nil {
		t.Fatal("EnvFromContext() returned nil")
	}
	if env.start.IsZero() {
		t.Error("Environment start time not set")
	}
	if EnvFromContext(ctx) != env {
		t.Error("Environment should be shared by context users")
	}
}

func TestEnvFromContext_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic when env not in context")
		}
	}()
	EnvFromContext(context.Background())
}

func TestLocalEnv_Uptime(t *testing.T) {
	env := &LocalEnv{start: time.Now()}
	time.Sleep(10 * time.Millisecond)
	if up := env.Uptime(); up < 10*time.Millisecond || up > time.Second {
		t.Errorf("Uptime() = %v", up)
	}
}

func TestLocalEnv_StdLog(t *testing.T) {
	t.Run("with logger", func(t *testing.T) {
		env := &LocalEnv{Log: zaptest.NewLogger(t)}
		for i := 0; i < 3; i++ {
			env.RedirectStdLog()
			if env.restoreStdLog == nil {
				t.Fatalf("Iteration %d: restoreStdLog not set", i)
			}
			env.RestoreStdLog()
		}
	})

	t.Run("without logger", func(t *testing.T) {
		env := &LocalEnv{}
		env.RedirectStdLog()
		if env.restoreStdLog != nil {
			t.Error("Expected restoreStdLog to remain nil")
		}
		env.RestoreStdLog()
	})
}

func TestLocalEnv_Clients(t *testing.T) {
	env := newTestEnv(t)

	lc := env.LookupClient()
	if lc == nil || env.LookupClient() != lc {
		t.Error("LookupClient() should be created once")
	}
	dc := env.DepositClient()
	if dc == nil || env.DepositClient() != dc {
		t.Error("DepositClient() should be created once")
	}
	if env.Compiler() == nil {
		t.Error("Compiler() returned nil")
	}

	env.Cfg.Compiler.ResolveJournals = false
	env.Cfg.Compiler.ResolveAffiliations = false
	if env.Compiler() == nil {
		t.Error("Compiler() without resolution returned nil")
	}
}

func TestLocalEnv_DepositOptions(t *testing.T) {
	env := newTestEnv(t)
	opts := env.DepositOptions()
	if opts.Completion != "idref" || !opts.ExportPMC || !opts.Test || opts.ExportArxiv || opts.HideOAI {
		t.Errorf("DepositOptions() = %+v", opts)
	}
	if opts.OnBehalfOf != "" {
		t.Errorf("OnBehalfOf comes from command line only, got %q", opts.OnBehalfOf)
	}
}
