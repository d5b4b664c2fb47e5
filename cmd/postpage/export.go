package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/3-lines-studio/postpage"
	"github.com/3-lines-studio/postpage/internal/adapters/cli"
	fsadapter "github.com/3-lines-studio/postpage/internal/adapters/fs"
	s3adapter "github.com/3-lines-studio/postpage/internal/adapters/s3"
	"github.com/3-lines-studio/postpage/internal/clock"
	"github.com/3-lines-studio/postpage/internal/core"
	"github.com/3-lines-studio/postpage/internal/usecase"
)

type locatedStore interface {
	usecase.PageStore
	Location() string
}

type dirStore struct {
	*fsadapter.DirStore
}

func (s dirStore) Location() string {
	return s.Root()
}

func newExportCmd(flags *globalFlags) *cobra.Command {
	var (
		outDir   string
		bucket   string
		prefix   string
		parallel int
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the listed pages as static HTML to a directory or an S3 bucket",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if outDir != "" {
				cfg.Export.Dir = outDir
			}
			if bucket != "" {
				cfg.Export.S3Bucket = bucket
			}
			if prefix != "" {
				cfg.Export.S3Prefix = prefix
			}
			if parallel > 0 {
				cfg.Export.Concurrency = parallel
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			output := cli.NewOutput()
			output.PrintHeader("Postpage Export")

			logger, err := newLogger(cfg, os.Stderr)
			if err != nil {
				return err
			}

			var store locatedStore
			if cfg.Export.S3Bucket != "" {
				s3Store, err := s3adapter.NewStoreFromEnv(cmd.Context(), cfg.Export.S3Bucket,
					s3adapter.WithPrefix(cfg.Export.S3Prefix),
					s3adapter.WithCacheControl(core.CacheControl(cfg.StaleAfter())),
					s3adapter.WithLogger(logger),
				)
				if err != nil {
					return err
				}
				store = s3Store
			} else {
				store = dirStore{fsadapter.NewDirStore(fsadapter.NewOSFileSystem(), cfg.Export.Dir)}
			}

			app, err := postpage.New(cfg, postpage.WithLogger(logger))
			if err != nil {
				return err
			}
			defer func() { _ = app.Stop() }()

			report := cli.NewExportReport(output, output.Writer(), output.ErrWriter(), clock.NewReal(), store.Location())
			result := app.Export(cmd.Context(), store, output)
			report.AddWritten(result.Written...)
			report.AddMissing(result.Missing...)
			report.Fail(result.Error)
			report.Render()

			if report.Failed() {
				return fmt.Errorf("export failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default from config: dist)")
	cmd.Flags().StringVar(&bucket, "s3-bucket", "", "Upload to this S3 bucket instead of a directory")
	cmd.Flags().StringVar(&prefix, "s3-prefix", "", "Key prefix inside the S3 bucket")
	cmd.Flags().IntVar(&parallel, "concurrency", 0, "Pages generated in parallel")

	return cmd
}
