package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pubwatch/internal/adapters"
	"pubwatch/internal/app"
	"pubwatch/internal/types"
)

type addOptions struct {
	Dev      bool
	Dir      string
	Registry string
}

func newAddCommand() *cobra.Command {
	opts := addOptions{}
	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a dependency at its latest published version",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return runAdd(cmd.Context(), cmd, opts, name)
		},
	}

	cmd.Flags().BoolVar(&opts.Dev, "dev", false, "Add to the development section")
	cmd.Flags().StringVar(&opts.Dir, "dir", ".", "Directory to start the manifest walk from")
	cmd.Flags().StringVar(&opts.Registry, "registry", "", "Registry base URL")

	_ = viper.BindPFlag("dev", cmd.Flags().Lookup("dev"))
	_ = viper.BindPFlag("registry", cmd.Flags().Lookup("registry"))

	return cmd
}

func runAdd(ctx context.Context, cmd *cobra.Command, opts addOptions, name string) error {
	section := types.SectionDependencies
	if resolveBool(cmd, opts.Dev, "dev", "dev") {
		section = types.SectionDevDependencies
	}

	ui := adapters.NewConsoleUIAdapter(cmd.OutOrStdout(), cmd.InOrStdin())
	service := newAppService(ui, resolveString(cmd, opts.Registry, "registry", "registry"), 0)
	result, err := service.AddDependency(ctx, app.AddDependencyRequest{
		Name:     name,
		Section:  section,
		StartDir: opts.Dir,
	})
	if err != nil {
		return err
	}
	if result.Cancelled {
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "added %s %s to %s (line %d)\n",
		result.Name, result.Version, result.ManifestPath, result.Line)
	return nil
}
