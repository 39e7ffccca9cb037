package app

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jonpalmisc/limoncello/internal/core/domain"
	"github.com/jonpalmisc/limoncello/internal/engine/matrix"
)

// Placeholders used in listed command lines when no tool path is given.
const (
	compilerPlaceholder = "$CC"
	pluginPlaceholder   = "$PLUGIN"
)

// ListOptions configuration for the List method.
type ListOptions struct {
	Filter     string
	ConfigPath string
	// Commands prints the full compiler command line of every artifact.
	Commands     bool
	CompilerPath string
	PluginPath   string
}

// List writes the build matrix for the selected samples to w without
// running anything.
func (a *App) List(_ context.Context, opts ListOptions, w io.Writer) error {
	if err := matrix.ValidatePattern(filterOrDefault(opts.Filter)); err != nil {
		return err
	}

	catalog, err := a.loadCatalog(opts.ConfigPath)
	if err != nil {
		return err
	}

	bctx := domain.BuildContext{
		CompilerPath: compilerPlaceholder,
		PluginPath:   pluginPlaceholder,
	}
	if opts.CompilerPath != "" {
		bctx.CompilerPath = opts.CompilerPath
	}
	if opts.PluginPath != "" {
		bctx.PluginPath = opts.PluginPath
	}

	builder := matrix.NewBuilder(catalog.Layout)
	jobs := matrix.Jobs(matrix.Select(catalog.Entries, opts.Filter), bctx)

	for _, job := range jobs {
		if _, err := fmt.Fprintf(w, "%s (%s)\n", job.Entry, job.Entry.Kind); err != nil {
			return err
		}
		for _, inv := range builder.Expand(job) {
			line := "  " + inv.Name()
			if opts.Commands {
				line += ": " + quoteArgs(inv.Args)
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}

	_, err = fmt.Fprintf(w, "%d sample(s), %d artifact(s)\n", len(jobs), len(builder.Plan(jobs)))
	return err
}

func quoteArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		if arg == "" || strings.ContainsAny(arg, " \t\"'") {
			arg = strconv.Quote(arg)
		}
		quoted[i] = arg
	}
	return strings.Join(quoted, " ")
}
