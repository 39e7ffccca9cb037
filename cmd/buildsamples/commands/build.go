package commands

import (
	"github.com/jonpalmisc/limoncello/internal/app"
	"github.com/jonpalmisc/limoncello/internal/core/domain"
	"github.com/spf13/cobra"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile every selected sample at -O0 and -O2, with and without the plugin",
		Example: "  buildsamples build -c /usr/bin/clang -p build/libLimoncello.so\n" +
			"  buildsamples build -c clang -p build/libLimoncello.so -f 'Number*' -j 4",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			compiler, _ := cmd.Flags().GetString("compiler")
			plugin, _ := cmd.Flags().GetString("plugin")
			filter, _ := cmd.Flags().GetString("filter")
			jobs, _ := cmd.Flags().GetInt("jobs")
			configPath, _ := cmd.Flags().GetString("config")
			outputMode, _ := cmd.Flags().GetString("output-mode")
			ci, _ := cmd.Flags().GetBool("ci")
			strict, _ := cmd.Flags().GetBool("strict")
			usePTY, _ := cmd.Flags().GetBool("pty")
			watch, _ := cmd.Flags().GetBool("watch")
			verbose, _ := cmd.Flags().GetBool("verbose")
			jsonLogs, _ := cmd.Flags().GetBool("json-logs")

			if ci {
				outputMode = "linear"
			}

			return c.app.Build(cmd.Context(), app.BuildOptions{
				CompilerPath: compiler,
				PluginPath:   plugin,
				Filter:       filter,
				Workers:      jobs,
				ConfigPath:   configPath,
				OutputMode:   outputMode,
				Strict:       strict,
				PTY:          usePTY,
				Verbose:      verbose,
				JSONLogs:     jsonLogs,
				Watch:        watch,
			})
		},
	}

	cmd.Flags().StringP("compiler", "c", "", "Path to the Clang executable")
	cmd.Flags().StringP("plugin", "p", "", "Path to the Limoncello plugin")
	cmd.Flags().StringP("filter", "f", domain.DefaultFilter, "Glob selecting samples by short name")
	cmd.Flags().IntP("jobs", "j", domain.DefaultWorkers, "Number of samples to build in parallel")
	cmd.Flags().StringP("output-mode", "o", "auto", "Output mode: auto, tui, or linear")
	cmd.Flags().Bool("ci", false, "Use linear output mode (shorthand for --output-mode=linear)")
	cmd.Flags().Bool("strict", false, "Exit with status 1 if any invocation fails")
	cmd.Flags().Bool("pty", false, "Run the compiler on a pseudo-terminal to keep colored diagnostics")
	cmd.Flags().BoolP("watch", "w", false, "Rebuild samples when their source or configuration changes")
	cmd.Flags().BoolP("verbose", "v", false, "Also send compiler output to the log")
	cmd.Flags().Bool("json-logs", false, "Write logs as JSON")
	_ = cmd.MarkFlagRequired("compiler")
	_ = cmd.MarkFlagRequired("plugin")

	return cmd
}
