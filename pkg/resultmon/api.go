package resultmon

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"resultmon/internal/model"
	"resultmon/internal/storage"
	"resultmon/internal/tsp"
)

const (
	AlgorithmNearestNeighbor = "nn"
	AlgorithmIHC             = "ihc"
	AlgorithmSA              = "sa"
	AlgorithmTabu            = "tabu"

	FormatJSON = "json"
	FormatYAML = "yaml"

	defaultExportsDir = "exports"
	defaultStarts     = 50
)

var ErrRecordNotFound = errors.New("record not found")

type Options struct {
	StoreKind   string
	Path        string
	UniqueNames bool
}

type Client struct {
	store storage.Store
}

type RunRequest struct {
	Algorithm   string
	MatrixPath  string
	DatasetName string
	Seed        int64
	StartCity   int
	Starts      int
	Anneal      tsp.AnnealConfig
	Tabu        tsp.TabuConfig
}

type RunSummary struct {
	Filename string
	Record   model.Record
}

type ExportRequest struct {
	Filename string
	OutDir   string
	Format   string
}

type ExportSummary struct {
	Filename string
	Path     string
}

func New(opts Options) (*Client, error) {
	kind := opts.StoreKind
	if kind == "" {
		kind = storage.KindFile
	}
	var fileOpts []storage.FileOption
	if opts.UniqueNames {
		fileOpts = append(fileOpts, storage.WithUniqueSuffix())
	}

	store, err := storage.NewStore(kind, opts.Path, fileOpts...)
	if err != nil {
		return nil, err
	}
	return &Client{store: storage.Instrument(store, kind)}, nil
}

func (c *Client) Init(ctx context.Context) error {
	return c.store.Init(ctx)
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Save(ctx context.Context, record model.Record) (string, error) {
	return c.store.Save(ctx, record)
}

func (c *Client) List(ctx context.Context) ([]string, error) {
	return c.store.List(ctx)
}

func (c *Client) Show(ctx context.Context, filename string) (model.Record, error) {
	record, ok, err := c.store.Load(ctx, filename)
	if err != nil {
		return model.Record{}, err
	}
	if !ok {
		return model.Record{}, fmt.Errorf("%w: %s", ErrRecordNotFound, filename)
	}
	return record, nil
}

// Run executes one heuristic over a distance matrix, records the outcome and
// saves it.
func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	if req.MatrixPath == "" {
		return RunSummary{}, errors.New("matrix path is required")
	}
	if req.DatasetName == "" {
		req.DatasetName = strings.TrimSuffix(filepath.Base(req.MatrixPath), filepath.Ext(req.MatrixPath))
	}

	m, err := tsp.LoadMatrix(req.MatrixPath)
	if err != nil {
		return RunSummary{}, err
	}
	if err := ctx.Err(); err != nil {
		return RunSummary{}, err
	}

	record, err := execute(req, m)
	if err != nil {
		return RunSummary{}, err
	}
	filename, err := c.store.Save(ctx, record)
	if err != nil {
		return RunSummary{}, err
	}
	return RunSummary{Filename: filename, Record: record}, nil
}

func execute(req RunRequest, m tsp.Matrix) (model.Record, error) {
	type outcome struct {
		tour       []int
		length     float64
		iterations int
		err        error
	}

	rng := rand.New(rand.NewSource(req.Seed))
	record := model.NewRecord(req.Algorithm).
		WithDataset(req.DatasetName, m.Size()).
		WithParameter("seed", strconv.FormatInt(req.Seed, 10)).
		WithMetric("cities", float64(m.Size()))

	var (
		run        func() outcome
		iterations uint32
	)
	switch req.Algorithm {
	case AlgorithmNearestNeighbor:
		record = record.WithParameter("start_city", strconv.Itoa(req.StartCity))
		iterations = 1
		run = func() outcome {
			tour, err := tsp.NearestNeighbor(m, req.StartCity)
			if err != nil {
				return outcome{err: err}
			}
			return outcome{tour: tour, length: tsp.TourLength(tour, m)}
		}
	case AlgorithmIHC:
		starts := req.Starts
		if starts <= 0 {
			starts = defaultStarts
		}
		record = record.WithParameter("num_starts", strconv.Itoa(starts))
		iterations = uint32(starts)
		run = func() outcome {
			tour, length := tsp.IterativeHillClimb(m, starts, rng)
			return outcome{tour: tour, length: length}
		}
	case AlgorithmSA:
		cfg := req.Anneal
		if cfg.StartTemp == 0 && cfg.EndTemp == 0 && cfg.Alpha == 0 && cfg.ItersPerT == 0 {
			cfg = tsp.DefaultAnnealConfig()
		}
		if err := cfg.Validate(); err != nil {
			return model.Record{}, err
		}
		record = record.
			WithParameter("T_start", formatFloat(cfg.StartTemp)).
			WithParameter("T_end", formatFloat(cfg.EndTemp)).
			WithParameter("alpha", formatFloat(cfg.Alpha)).
			WithParameter("iters_per_T", strconv.Itoa(cfg.ItersPerT))
		iterations = uint32(cfg.Iterations())
		run = func() outcome {
			tour, length, err := tsp.SimulatedAnnealing(m, cfg, rng)
			return outcome{tour: tour, length: length, err: err}
		}
	case AlgorithmTabu:
		cfg := req.Tabu
		if cfg.Neighborhood == "" && cfg.MaxIters == 0 && cfg.Tenure == 0 {
			cfg = tsp.DefaultTabuConfig()
		}
		if err := cfg.Validate(); err != nil {
			return model.Record{}, err
		}
		record = record.
			WithParameter("max_iters", strconv.Itoa(cfg.MaxIters)).
			WithParameter("tabu_tenure", strconv.Itoa(cfg.Tenure)).
			WithParameter("neighborhood", cfg.Neighborhood).
			WithParameter("max_no_improve", strconv.Itoa(cfg.MaxNoImprove))
		if cfg.MaxCandidates > 0 {
			record = record.WithParameter("max_candidates", strconv.Itoa(cfg.MaxCandidates))
		}
		run = func() outcome {
			tour, length, n, err := tsp.TabuSearch(m, cfg, rng)
			return outcome{tour: tour, length: length, iterations: n, err: err}
		}
	default:
		return model.Record{}, fmt.Errorf("unsupported algorithm: %s", req.Algorithm)
	}

	result, elapsed := tsp.Measure(run)
	if result.err != nil {
		return model.Record{}, result.err
	}
	if result.iterations > 0 {
		iterations = uint32(result.iterations)
	}
	return record.
		WithResult(result.length, result.tour).
		WithExecutionTime(uint64(elapsed.Milliseconds())).
		WithIterations(iterations), nil
}

// Export writes a stored record to OutDir in the requested format and
// returns the written path.
func (c *Client) Export(ctx context.Context, req ExportRequest) (ExportSummary, error) {
	if req.Filename == "" {
		return ExportSummary{}, errors.New("export requires a record filename")
	}
	if req.OutDir == "" {
		req.OutDir = defaultExportsDir
	}
	if req.Format == "" {
		req.Format = FormatJSON
	}

	record, err := c.Show(ctx, req.Filename)
	if err != nil {
		return ExportSummary{}, err
	}
	data, err := Encode(record, req.Format)
	if err != nil {
		return ExportSummary{}, err
	}

	if err := os.MkdirAll(req.OutDir, 0o755); err != nil {
		return ExportSummary{}, err
	}
	path := filepath.Join(req.OutDir, strings.TrimSuffix(req.Filename, storage.RecordExt)+"."+req.Format)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ExportSummary{}, err
	}
	return ExportSummary{Filename: req.Filename, Path: path}, nil
}

// Encode renders a record as json (the on-disk document) or yaml.
func Encode(record model.Record, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return storage.EncodeRecord(record)
	case FormatYAML:
		return yaml.Marshal(record)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
