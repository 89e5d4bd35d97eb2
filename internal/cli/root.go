// Package cli defines the posters command line.
package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/five82/posters/internal/app"
	"github.com/five82/posters/internal/config"
)

// errNoTerminal is returned when the browser is started without a TTY.
var errNoTerminal = errors.New("the browser needs an interactive terminal; use a subcommand such as list or show")

// env holds the process hooks the commands depend on.
type env struct {
	launch   func(ctx context.Context, opts app.Options) error
	terminal func() bool
	prepare  func(*app.Dependencies) // adjusts dependencies before one-shot commands run
}

// rootFlags are the persistent flags shared by every command.
type rootFlags struct {
	configPath string
	prefsPath  string
	link       string
	debug      bool
}

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// NewRootCmd creates the root command. Without a subcommand it starts the
// wallpaper browser.
func NewRootCmd(version string) *cobra.Command {
	return newRootCmd(version, env{
		launch:   app.Run,
		terminal: func() bool { return isTerminal(os.Stdout) && isTerminal(os.Stdin) },
	})
}

func newRootCmd(version string, e env) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:     "posters",
		Short:   "Browse and apply wallpapers from the terminal",
		Long:    "posters: browse the wallpaper collection, save favorites and set your desktop background",
		Version: version,
		Example: rootCmdExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !e.terminal() {
				return errNoTerminal
			}
			return e.launch(cmd.Context(), app.Options{
				ConfigPath: flags.configPath,
				PrefsPath:  flags.prefsPath,
				Link:       flags.link,
				Debug:      flags.debug,
			})
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default ~/.config/posters/config.toml)")
	cmd.PersistentFlags().StringVar(&flags.prefsPath, "prefs", "", "preferences file (default ~/.config/posters/prefs.toml)")
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")
	cmd.Flags().StringVar(&flags.link, "link", "", "wallpaper link or id to open on start")

	cmd.AddCommand(
		newOpenCmd(flags, e),
		newShowCmd(flags, e),
		newListCmd(flags, e),
		newDownloadCmd(flags, e),
		newApplyCmd(flags, e),
		newShareCmd(flags, e),
		newLogsCmd(flags),
	)
	return cmd
}

const rootCmdExample = `  # Start the browser
  posters

  # Start the browser on a shared wallpaper
  posters --link 'https://arpg2418.github.io/posters-redirect/?wallpaperId=42'

  # Print the first page of the collection
  posters list

  # Set a wallpaper without opening the browser
  posters apply postersapp://wallpaper/42`

// loadDeps reads the config and builds the shared dependencies for a
// one-shot command. Callers must Close the result.
func loadDeps(cmd *cobra.Command, flags *rootFlags, e env) (*app.Dependencies, error) {
	app.SetupConsoleLogging(flags.debug)

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	deps, err := app.NewDependencies(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}
	if e.prepare != nil {
		e.prepare(deps)
	}
	return deps, nil
}
