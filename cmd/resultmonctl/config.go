package main

import (
	"flag"
	"log/slog"
	"os"

	"resultmon/internal/config"
	"resultmon/pkg/resultmon"
)

type commonFlags struct {
	configPath  string
	store       string
	path        string
	unique      bool
	seed        int64
	logLevel    string
	dumpMetrics bool
	trace       bool
}

func registerCommonFlags(fs *flag.FlagSet) *commonFlags {
	f := &commonFlags{}
	fs.StringVar(&f.configPath, "config", "", "optional config file (yaml|json|toml)")
	fs.StringVar(&f.store, "store", "", "store backend: file|memory|sqlite")
	fs.StringVar(&f.path, "path", "", "results directory (file) or database path (sqlite)")
	fs.BoolVar(&f.unique, "unique", false, "append a random suffix to record filenames")
	fs.Int64Var(&f.seed, "seed", 0, "rng seed")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug|info|warn|error")
	fs.BoolVar(&f.dumpMetrics, "metrics", false, "print store metrics after the command")
	fs.BoolVar(&f.trace, "trace", false, "print store trace spans to stderr")
	return f
}

// resolve loads the config file and environment, then applies any flag the
// user set explicitly on top.
func (f *commonFlags) resolve(fs *flag.FlagSet) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "store":
			cfg.Store = f.store
		case "path":
			cfg.Path = f.path
		case "unique":
			cfg.UniqueNames = f.unique
		case "seed":
			cfg.Seed = f.seed
		case "log-level":
			cfg.LogLevel = f.logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	return cfg, nil
}

func clientOptions(cfg *config.Config) resultmon.Options {
	return resultmon.Options{
		StoreKind:   cfg.Store,
		Path:        cfg.Path,
		UniqueNames: cfg.UniqueNames,
	}
}
