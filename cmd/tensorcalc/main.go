// Command tensorcalc evaluates tensor computations described in YAML.
//
//	tensorcalc run computation.yaml --mode materialized --workers 4
//	tensorcalc run computation.yaml --store ./tensors --save --compression zstd
//	tensorcalc list --store ./tensors
//	tensorcalc run computation.yaml --store s3://bucket/tensors --commit-table tensoralg-commits --save
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/tensoralg"
	"github.com/hupe1980/tensoralg/codec"
	"github.com/hupe1980/tensoralg/index"
	"github.com/hupe1980/tensoralg/scalar"
)

type flags struct {
	mode        string
	workers     int
	logLevel    string
	store       string
	save        bool
	codec       string
	compression string
	tolerance   float64
	memLimit    int64
	ioLimit     int64
	region      string
	endpoint    string
	commitTable string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var fl flags

	root := &cobra.Command{
		Use:           "tensorcalc",
		Short:         "Evaluate tensor index-notation computations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&fl.mode, "mode", "lazy", "term enumeration: lazy or materialized")
	pf.IntVar(&fl.workers, "workers", 1, "goroutines per combination")
	pf.StringVar(&fl.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	pf.StringVar(&fl.store, "store", "", "snapshot store: directory, s3://bucket/prefix, minio://host/bucket/prefix or mem://")
	pf.StringVar(&fl.region, "region", "", "AWS region for s3:// stores")
	pf.StringVar(&fl.endpoint, "endpoint", "", "S3-compatible endpoint for s3:// stores")
	pf.StringVar(&fl.commitTable, "commit-table", "", "DynamoDB table versioning s3:// snapshots")
	pf.StringVar(&fl.codec, "codec", "go-json", "snapshot codec: "+strings.Join(codec.Names(), ", "))
	pf.StringVar(&fl.compression, "compression", "none", "snapshot compression: none, lz4 or zstd")
	pf.Float64Var(&fl.tolerance, "tolerance", 1e-12, "float comparison tolerance")
	pf.Int64Var(&fl.memLimit, "memory-limit", 0, "max bytes of results evaluated at once (0 = unlimited)")
	pf.Int64Var(&fl.ioLimit, "io-limit", 0, "max snapshot bytes per second (0 = unlimited)")

	run := &cobra.Command{
		Use:   "run <file.yaml>",
		Short: "Run a computation file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := LoadComputation(args[0])
			if err != nil {
				return err
			}
			if fl.save && fl.store == "" {
				return fmt.Errorf("--save requires --store")
			}
			eng, err := newEngine(cmd.Context(), fl)
			if err != nil {
				return err
			}

			r := &Runner{eng: eng, out: cmd.OutOrStdout(), save: fl.save}
			_, err = r.Run(cmd.Context(), c)
			return err
		},
	}
	run.Flags().BoolVar(&fl.save, "save", false, "save every step result to the store")

	list := &cobra.Command{
		Use:   "list",
		Short: "List tensors in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if fl.store == "" {
				return fmt.Errorf("--store is required")
			}
			eng, err := newEngine(cmd.Context(), fl)
			if err != nil {
				return err
			}
			names, err := eng.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}

	root.AddCommand(run, list)
	return root
}

func newEngine(ctx context.Context, fl flags) (*tensoralg.Engine[float64], error) {
	mode, err := index.ParseMode(fl.mode)
	if err != nil {
		return nil, err
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(fl.logLevel)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	c, ok := codec.ByName(fl.codec)
	if !ok {
		return nil, fmt.Errorf("unknown codec %q, want one of %s", fl.codec, strings.Join(codec.Names(), ", "))
	}
	comp, err := codec.ParseCompression(fl.compression)
	if err != nil {
		return nil, err
	}

	opts := []tensoralg.Option{
		tensoralg.WithMode(mode),
		tensoralg.WithWorkers(fl.workers),
		tensoralg.WithLogLevel(level),
		tensoralg.WithCodec(c),
		tensoralg.WithCompression(comp),
	}
	if fl.memLimit > 0 || fl.ioLimit > 0 {
		opts = append(opts, tensoralg.WithResourceLimits(fl.memLimit, fl.ioLimit))
	}
	store, err := openStore(ctx, fl)
	if err != nil {
		return nil, err
	}
	if store != nil {
		opts = append(opts, tensoralg.WithStore(store))
	}

	var f scalar.Field[float64] = scalar.Float64{Tolerance: fl.tolerance}
	return tensoralg.New(f, opts...)
}
