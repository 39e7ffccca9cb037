package commands

import (
	"github.com/jonpalmisc/limoncello/internal/app"
	"github.com/jonpalmisc/limoncello/internal/core/domain"
	"github.com/spf13/cobra"
)

func (c *CLI) newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the artifacts a build would produce",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, _ := cmd.Flags().GetString("filter")
			commands, _ := cmd.Flags().GetBool("commands")
			compiler, _ := cmd.Flags().GetString("compiler")
			plugin, _ := cmd.Flags().GetString("plugin")
			configPath, _ := cmd.Flags().GetString("config")

			return c.app.List(cmd.Context(), app.ListOptions{
				Filter:       filter,
				ConfigPath:   configPath,
				Commands:     commands,
				CompilerPath: compiler,
				PluginPath:   plugin,
			}, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringP("filter", "f", domain.DefaultFilter, "Glob selecting samples by short name")
	cmd.Flags().Bool("commands", false, "Print the compiler command line of every artifact")
	cmd.Flags().StringP("compiler", "c", "", "Compiler path shown in command lines")
	cmd.Flags().StringP("plugin", "p", "", "Plugin path shown in command lines")

	return cmd
}
