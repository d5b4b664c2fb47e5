package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/3-lines-studio/postpage/internal/config"
	"github.com/3-lines-studio/postpage/internal/logging"
)

type globalFlags struct {
	configPath string
	fixtures   string
	dev        bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "postpage",
		Short:         "Serve and export the open blog post pages",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "postpage.yaml", "Config file (missing file means defaults)")
	root.PersistentFlags().StringVar(&flags.fixtures, "fixtures", "", "Serve posts from a JSON fixtures file instead of the content API")
	root.PersistentFlags().BoolVar(&flags.dev, "dev", false, "Development mode (or set POSTPAGE_DEV=1)")

	root.AddCommand(newServeCmd(flags))
	root.AddCommand(newExportCmd(flags))
	root.AddCommand(newDoctorCmd(flags))

	return root
}

func (f *globalFlags) load() (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	if f.fixtures != "" {
		cfg.Content.Fixtures = f.fixtures
	}
	if f.dev {
		cfg.Dev = true
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	format := cfg.Logging.Format
	if cfg.Dev && format == "json" {
		format = "text"
	}
	return logging.New(w, cfg.Logging.Level, format)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "postpage: %v\n", err)
		os.Exit(1)
	}
}
