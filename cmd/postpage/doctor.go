package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/3-lines-studio/postpage"
	"github.com/3-lines-studio/postpage/internal/adapters/cli"
	"github.com/3-lines-studio/postpage/internal/config"
	"github.com/3-lines-studio/postpage/internal/core"
	"github.com/3-lines-studio/postpage/internal/page"
)

func newDoctorCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the configuration, the content API and the embedded assets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			output := cli.NewWriterOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
			output.PrintHeader("Postpage Doctor")

			cfg, err := flags.load()
			if err != nil {
				output.PrintError("Failed to load config: %v", err)
				return fmt.Errorf("doctor found problems")
			}

			if !runDoctor(cmd.Context(), cfg, output) {
				return fmt.Errorf("doctor found problems")
			}
			output.PrintDone("Everything looks good")
			return nil
		},
	}
}

func runDoctor(ctx context.Context, cfg *config.Config, output *cli.Output) bool {
	ok := true

	if err := cfg.Validate(); err != nil {
		output.PrintError("Config: %v", err)
		return false
	}
	output.PrintSuccess("Config is valid")

	for _, name := range []string{"styles.css", "favicon.svg"} {
		if _, err := fs.Stat(page.PublicFS(), name); err != nil {
			output.PrintError("Public asset %s missing: %v", name, err)
			ok = false
		}
	}
	if _, err := page.NewRenderer().RenderNotFound(); err != nil {
		output.PrintError("Templates: %v", err)
		ok = false
	} else {
		output.PrintSuccess("Templates and public assets are embedded")
	}

	client, err := postpage.NewContentClient(cfg, slog.New(slog.DiscardHandler))
	if err != nil {
		output.PrintError("Content: %v", err)
		return false
	}

	for _, slug := range cfg.Pages.Prerender {
		postCtx, cancel := context.WithTimeout(ctx, cfg.ContentTimeout())
		post, err := client.GetPost(postCtx, slug)
		cancel()

		switch {
		case errors.Is(err, core.ErrPostNotFound):
			output.PrintWarning("Post %q not found; its page will answer 404", slug)
		case err != nil:
			output.PrintError("Post %q: %v", slug, err)
			ok = false
		default:
			output.PrintSuccess("Post %q: %s", slug, post.Title)
		}
	}

	return ok
}
