// Package cli implements the nestlayout command-line interface.
//
// # Commands
//
//   - layout: lay out a graph file and write the result JSON
//   - inspect: browse per-container diagnostics of the layered engine
//   - dot: print the DOT document the compound engine would run
//   - serve: run the HTTP service
//   - cache: manage the local layout cache
//
// # Logging
//
// Diagnostics go to the writer given to [New]. --verbose (-v), or a
// non-empty NESTLAYOUT_DEBUG, enables debug output; --quiet (-q) keeps only
// warnings and errors.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nestlayout/pkg/buildinfo"
	"github.com/matzehuels/nestlayout/pkg/cache"
	"github.com/matzehuels/nestlayout/pkg/pipeline"
)

const appName = "nestlayout"

// LogInfo is the default level for [New].
const LogInfo = log.InfoLevel

// CLI holds the state shared by all commands.
type CLI struct {
	Logger *log.Logger
}

// New returns a CLI whose logger writes to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// RootCommand builds the command tree.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose, quiet bool

	root := &cobra.Command{
		Use:   appName,
		Short: "nestlayout arranges nested network diagrams",
		Long: `nestlayout computes positions and sizes for diagrams made of nested
boundaries (sites, VPCs, racks) and the devices inside them, connected by
directed edges.`,
		Version:       buildinfo.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			switch {
			case verbose:
				c.Logger.SetLevel(log.DebugLevel)
			case quiet:
				c.Logger.SetLevel(log.WarnLevel)
			}
		},
	}
	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", os.Getenv("NESTLAYOUT_DEBUG") != "", "enable debug logging")
	pf.BoolVarP(&quiet, "quiet", "q", false, "log warnings and errors only")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	root.AddCommand(
		c.layoutCommand(),
		c.inspectCommand(),
		c.dotCommand(),
		c.serveCommand(),
		c.cacheCommand(),
		c.completionCommand(),
	)
	return root
}

// newRunner returns a pipeline runner backed by the local file cache, or by
// no cache at all when noCache is set.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	store, _, err := c.localCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

// localCache opens the snappy-compressed file cache and describes it for
// banners. An undeterminable cache directory disables caching with a
// warning.
func (c *CLI) localCache(disabled bool) (cache.Cache, string, error) {
	if disabled {
		return cache.NewNullCache(), "disabled", nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "error", err)
		return cache.NewNullCache(), "disabled", nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, "", err
	}
	return cache.NewCompressed(fc), "file " + dir, nil
}

// cacheDir is $NESTLAYOUT_CACHE_DIR when set, otherwise nestlayout under
// the user cache directory ($XDG_CACHE_HOME or ~/.cache on Linux).
func cacheDir() (string, error) {
	if dir := os.Getenv("NESTLAYOUT_CACHE_DIR"); dir != "" {
		return dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appName), nil
}
