package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eugenenazirov/container-packing/internal/export"
	"github.com/eugenenazirov/container-packing/internal/logging"
	"github.com/eugenenazirov/container-packing/internal/orlib"
	"github.com/eugenenazirov/container-packing/internal/packing"
	"github.com/eugenenazirov/container-packing/internal/service"
)

type options struct {
	file   string
	limit  int
	xlsx   string
	strict bool
}

type summary struct {
	cases      int
	mismatches int
}

func main() {
	app := kingpin.New("packbench", "Runs OR-Library reference cases through the packing service")
	file := app.Flag("file", "Reference case file").Required().ExistingFile()
	limit := app.Flag("limit", "Stop after this many cases (0 runs all)").Default("0").Int()
	xlsx := app.Flag("xlsx", "Write all results to this workbook").String()
	strict := app.Flag("strict", "Exit non-zero when a packed count differs from the published one").Bool()
	logLevel := app.Flag("log-level", "Log level: debug, info, warn or error").Default("info").String()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	logger, err := logging.New(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	opts := options{file: *file, limit: *limit, xlsx: *xlsx, strict: *strict}
	sum, err := run(context.Background(), opts, logger)
	if err != nil {
		logger.Fatal("benchmark failed", zap.Error(err))
	}
	if opts.strict && sum.mismatches > 0 {
		logger.Error("packed counts differ from reference", zap.Int("mismatches", sum.mismatches))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, logger *zap.Logger) (summary, error) {
	cases, err := orlib.ParseFile(opts.file)
	if err != nil {
		return summary{}, err
	}
	if opts.limit > 0 && opts.limit < len(cases) {
		cases = cases[:opts.limit]
	}

	svc := service.New(service.WithLogger(logger.Named("service")), service.WithMaxItems(0))
	algorithms := []int{int(service.EBAFIT)}

	var (
		sum     summary
		results []service.ContainerPackingResult
	)
	for _, c := range cases {
		res, err := svc.Pack(ctx, []packing.Container{c.Container}, c.Items, algorithms)
		if err != nil {
			return sum, fmt.Errorf("case %s: %w", c.ID, err)
		}
		sum.cases++
		results = append(results, res...)

		ar := res[0].AlgorithmPackingResults[0]
		fields := []zap.Field{
			zap.String("case", c.ID),
			zap.Int("packed", len(ar.PackedItems)),
			zap.Int("expected_packed", c.Expected.PackedItems),
			zap.Float64("container_volume_pct", ar.PercentContainerVolumePacked),
			zap.Float64("expected_container_volume_pct", c.Expected.ContainerVolumePct),
			zap.Int64("duration_ms", ar.PackTimeInMilliseconds),
		}
		if len(ar.PackedItems) != c.Expected.PackedItems {
			sum.mismatches++
			logger.Warn("packed count differs from reference", fields...)
			continue
		}
		logger.Info("case matches reference", fields...)
	}

	if opts.xlsx != "" {
		if err := writeWorkbook(opts.xlsx, results); err != nil {
			return sum, err
		}
		logger.Info("workbook written", zap.String("path", opts.xlsx))
	}

	logger.Info("benchmark finished", zap.Int("cases", sum.cases), zap.Int("mismatches", sum.mismatches))
	return sum, nil
}

func writeWorkbook(path string, results []service.ContainerPackingResult) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create workbook: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return export.WriteWorkbook(f, results, uuid.NewString())
}
