package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pubwatch/internal/adapters"
	"pubwatch/internal/app"
)

type versionsOptions struct {
	Manifest string
	Registry string
}

func newVersionsCommand() *cobra.Command {
	opts := versionsOptions{}
	cmd := &cobra.Command{
		Use:   "versions <name>",
		Short: "Pick a specific version for a declared dependency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersions(cmd.Context(), cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Manifest, "manifest", adapters.ManifestFilename, "Manifest file path")
	cmd.Flags().StringVar(&opts.Registry, "registry", "", "Registry base URL")

	_ = viper.BindPFlag("manifest", cmd.Flags().Lookup("manifest"))
	_ = viper.BindPFlag("registry", cmd.Flags().Lookup("registry"))

	return cmd
}

func runVersions(ctx context.Context, cmd *cobra.Command, opts versionsOptions, name string) error {
	manifestPath := resolveString(cmd, opts.Manifest, "manifest", "manifest")
	if manifestPath == "" {
		manifestPath = adapters.ManifestFilename
	}
	manifest := adapters.NewManifestFileAdapter()
	text, err := manifest.Read(manifestPath)
	if err != nil {
		return err
	}

	ui := adapters.NewConsoleUIAdapter(cmd.OutOrStdout(), cmd.InOrStdin())
	ui.OpenDocument(manifestPath, manifestPath, text, 1)

	service := newAppService(ui, resolveString(cmd, opts.Registry, "registry", "registry"), 0)
	result, err := service.PickVersion(ctx, app.PickVersionRequest{
		DocumentID: manifestPath,
		Name:       name,
	})
	if err != nil {
		return err
	}
	if !result.Replaced {
		fmt.Fprintln(cmd.OutOrStdout(), "no version selected")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "pinned %s to %s (line %d)\n", result.Name, result.Version, result.Line)
	return nil
}
