package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pubwatch/internal/adapters"
	"pubwatch/internal/app"
)

type checkOptions struct {
	Manifest string
	Registry string
	Timeout  int
}

func newCheckCommand() *cobra.Command {
	opts := checkOptions{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Annotate a manifest with latest registry versions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Manifest, "manifest", adapters.ManifestFilename, "Manifest file path")
	cmd.Flags().StringVar(&opts.Registry, "registry", "", "Registry base URL")
	cmd.Flags().IntVar(&opts.Timeout, "timeout", 0, "Per-fetch timeout in seconds")

	_ = viper.BindPFlag("manifest", cmd.Flags().Lookup("manifest"))
	_ = viper.BindPFlag("registry", cmd.Flags().Lookup("registry"))
	_ = viper.BindPFlag("timeout", cmd.Flags().Lookup("timeout"))

	return cmd
}

func runCheck(ctx context.Context, cmd *cobra.Command, opts checkOptions) error {
	manifestPath := resolveString(cmd, opts.Manifest, "manifest", "manifest")
	if manifestPath == "" {
		manifestPath = adapters.ManifestFilename
	}
	manifest := adapters.NewManifestFileAdapter()
	text, err := manifest.Read(manifestPath)
	if err != nil {
		log.Error().Msg(errorMessage(err))
		return err
	}

	ui := adapters.NewConsoleUIAdapter(cmd.OutOrStdout(), cmd.InOrStdin())
	ui.OpenDocument(manifestPath, manifestPath, text, 1)

	service := newAppService(ui,
		resolveString(cmd, opts.Registry, "registry", "registry"),
		resolveInt(cmd, opts.Timeout, "timeout", "timeout"))
	result, err := service.Reconcile(ctx, app.ReconcileRequest{DocumentID: manifestPath})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "checked %d dependencies in %s\n", result.Dependencies, manifestPath)
	return nil
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	if viper.IsSet(key) && viper.GetString(key) != "" {
		return viper.GetString(key)
	}
	return value
}

func resolveInt(cmd *cobra.Command, value int, key string, flagName string) int {
	if cmd == nil {
		if value != 0 {
			return value
		}
		return viper.GetInt(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	if viper.IsSet(key) && viper.GetInt(key) != 0 {
		return viper.GetInt(key)
	}
	return value
}

func resolveBool(cmd *cobra.Command, value bool, key string, flagName string) bool {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetBool(key)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}
