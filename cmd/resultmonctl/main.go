package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"resultmon/internal/config"
	"resultmon/internal/metrics"
	"resultmon/internal/tracing"
	"resultmon/internal/tsp"
	"resultmon/pkg/resultmon"
)

const serviceName = "resultmonctl"

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "run":
		return runRun(ctx, args[1:])
	case "list":
		return runList(ctx, args[1:])
	case "show":
		return runShow(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	common := registerCommonFlags(fs)
	algorithm := fs.String("algo", resultmon.AlgorithmIHC, "algorithm: nn|ihc|sa|tabu")
	matrixPath := fs.String("data", "", "distance matrix CSV (';'-separated)")
	datasetName := fs.String("dataset", "", "dataset label (defaults to the data file name)")
	startCity := fs.Int("start-city", 0, "nearest neighbour start city")
	starts := fs.Int("starts", 50, "hill climbing restarts")
	defaults := tsp.DefaultAnnealConfig()
	startTemp := fs.Float64("t-start", defaults.StartTemp, "annealing start temperature")
	endTemp := fs.Float64("t-end", defaults.EndTemp, "annealing end temperature")
	alpha := fs.Float64("alpha", defaults.Alpha, "annealing cooling factor")
	itersPerT := fs.Int("iters-per-t", defaults.ItersPerT, "annealing iterations per temperature")
	tabuDefaults := tsp.DefaultTabuConfig()
	neighborhood := fs.String("neighborhood", tabuDefaults.Neighborhood, "tabu neighborhood: swap|insert|two_opt")
	maxIters := fs.Int("max-iters", tabuDefaults.MaxIters, "tabu iteration limit")
	maxNoImprove := fs.Int("max-no-improve", tabuDefaults.MaxNoImprove, "tabu non-improving iteration limit (0 disables)")
	tenure := fs.Int("tabu-tenure", tabuDefaults.Tenure, "iterations a move stays tabu")
	maxCandidates := fs.Int("max-candidates", 0, "sampled tabu moves per iteration (0 scans all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *matrixPath == "" {
		return errors.New("run requires --data")
	}

	return withClient(ctx, fs, common, func(ctx context.Context, client *resultmon.Client, cfg *config.Config) error {
		slog.Debug("starting run", "algorithm", *algorithm, "data", *matrixPath, "seed", cfg.Seed)
		summary, err := client.Run(ctx, resultmon.RunRequest{
			Algorithm:   *algorithm,
			MatrixPath:  *matrixPath,
			DatasetName: *datasetName,
			Seed:        cfg.Seed,
			StartCity:   *startCity,
			Starts:      *starts,
			Anneal: tsp.AnnealConfig{
				StartTemp: *startTemp,
				EndTemp:   *endTemp,
				Alpha:     *alpha,
				ItersPerT: *itersPerT,
			},
			Tabu: tsp.TabuConfig{
				Neighborhood:  *neighborhood,
				MaxIters:      *maxIters,
				MaxNoImprove:  *maxNoImprove,
				Tenure:        *tenure,
				MaxCandidates: *maxCandidates,
			},
		})
		if err != nil {
			return err
		}
		slog.Info("record saved", "filename", summary.Filename, "store", cfg.Store)
		fmt.Printf("saved=%s route_length=%.2f execution_time_ms=%d iterations=%d\n",
			summary.Filename,
			summary.Record.RouteLength,
			summary.Record.ExecutionTimeMS,
			summary.Record.Iterations,
		)
		return nil
	})
}

func runList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	common := registerCommonFlags(fs)
	jsonOut := fs.Bool("json", false, "emit filenames as a JSON array")
	long := fs.Bool("long", false, "load each record and print a one-line summary")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withClient(ctx, fs, common, func(ctx context.Context, client *resultmon.Client, _ *config.Config) error {
		names, err := client.List(ctx)
		if err != nil {
			return err
		}
		if *jsonOut {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(names)
		}
		if len(names) == 0 {
			fmt.Println("no records found")
			return nil
		}
		for _, name := range names {
			if !*long {
				fmt.Println(name)
				continue
			}
			record, err := client.Show(ctx, name)
			if err != nil {
				return err
			}
			fmt.Printf("%s algorithm=%s route_length=%s iterations=%s took=%s started=%s\n",
				name,
				record.AlgorithmName,
				humanize.CommafWithDigits(record.RouteLength, 2),
				humanize.Comma(int64(record.Iterations)),
				(time.Duration(record.ExecutionTimeMS) * time.Millisecond).String(),
				humanize.Time(record.StartTimestamp),
			)
		}
		return nil
	})
}

func runShow(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	common := registerCommonFlags(fs)
	format := fs.String("format", resultmon.FormatJSON, "output format: json|yaml")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("show requires exactly one record filename")
	}

	return withClient(ctx, fs, common, func(ctx context.Context, client *resultmon.Client, _ *config.Config) error {
		record, err := client.Show(ctx, fs.Arg(0))
		if err != nil {
			return err
		}
		data, err := resultmon.Encode(record, *format)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	})
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	common := registerCommonFlags(fs)
	outDir := fs.String("out", "exports", "export output directory")
	format := fs.String("format", resultmon.FormatJSON, "export format: json|yaml")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("export requires exactly one record filename")
	}

	return withClient(ctx, fs, common, func(ctx context.Context, client *resultmon.Client, _ *config.Config) error {
		summary, err := client.Export(ctx, resultmon.ExportRequest{
			Filename: fs.Arg(0),
			OutDir:   *outDir,
			Format:   *format,
		})
		if err != nil {
			return err
		}
		fmt.Printf("exported=%s to=%s\n", summary.Filename, filepath.Clean(summary.Path))
		return nil
	})
}

// withClient resolves configuration, opens the store and runs fn, taking
// care of tracing and the metrics dump around it.
func withClient(
	ctx context.Context,
	fs *flag.FlagSet,
	common *commonFlags,
	fn func(context.Context, *resultmon.Client, *config.Config) error,
) (err error) {
	cfg, err := common.resolve(fs)
	if err != nil {
		return err
	}

	if common.trace {
		shutdown, err := tracing.InitTracer(serviceName, os.Stderr)
		if err != nil {
			return err
		}
		defer func() {
			if shutdownErr := shutdown(context.Background()); shutdownErr != nil {
				slog.Warn("tracer shutdown failed", "error", shutdownErr)
			}
		}()
	}

	client, err := resultmon.New(clientOptions(cfg))
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	if err := client.Init(ctx); err != nil {
		return err
	}

	if err := fn(ctx, client, cfg); err != nil {
		return err
	}
	if common.dumpMetrics {
		return metrics.WriteText(os.Stdout)
	}
	return nil
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: resultmonctl <run|list|show|export> [flags]", msg)
}
