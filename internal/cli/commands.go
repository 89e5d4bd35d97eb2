package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/five82/posters/internal/app"
	"github.com/five82/posters/internal/config"
	"github.com/five82/posters/internal/deeplink"
	"github.com/five82/posters/internal/logging"
	"github.com/five82/posters/internal/logtail"
)

func newOpenCmd(flags *rootFlags, e env) *cobra.Command {
	return &cobra.Command{
		Use:   "open <link>",
		Short: "Open a wallpaper link",
		Long: "Hand a wallpaper link to the running browser. When no instance is " +
			"running, start the browser on that wallpaper.",
		Example: `  posters open postersapp://wallpaper/42
  posters open 'https://arpg2418.github.io/posters-redirect/?wallpaperId=42'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			link := args[0]
			if _, err := deeplink.Parse(link); err != nil {
				return err
			}

			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}

			if cfg.ListenAddr != "" {
				id, err := deeplink.Forward(cmd.Context(), cfg.ListenAddr, link)
				switch {
				case err == nil:
					fmt.Fprintf(cmd.OutOrStdout(), "Opened wallpaper %s in the running browser\n", id)
					return nil
				case !errors.Is(err, deeplink.ErrNotRunning):
					return err
				}
			}

			if !e.terminal() {
				return errNoTerminal
			}
			return e.launch(cmd.Context(), app.Options{
				ConfigPath: flags.configPath,
				PrefsPath:  flags.prefsPath,
				Link:       link,
				Debug:      flags.debug,
			})
		},
	}
}

func newShowCmd(flags *rootFlags, e env) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id|link>",
		Short: "Print one wallpaper",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := loadDeps(cmd, flags, e)
			if err != nil {
				return err
			}
			defer deps.Close()

			wp, err := deps.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			share, err := deps.ShareURL(wp.ID)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "ID\t%s\n", wp.ID)
			fmt.Fprintf(w, "Name\t%s\n", wp.DisplayName())
			fmt.Fprintf(w, "Thumbnail\t%s\n", wp.ThumbnailURL)
			fmt.Fprintf(w, "Preview\t%s\n", wp.PreviewURL)
			fmt.Fprintf(w, "Full\t%s\n", wp.FullURL)
			fmt.Fprintf(w, "Share\t%s\n", share)
			return w.Flush()
		},
	}
}

func newListCmd(flags *rootFlags, e env) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of the collection",
		Example: `  posters list
  posters list --page 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if page < 0 {
				return fmt.Errorf("page must be >= 0, got %d", page)
			}
			deps, err := loadDeps(cmd, flags, e)
			if err != nil {
				return err
			}
			defer deps.Close()

			items, err := deps.Client.FetchPage(cmd.Context(), page)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No wallpapers on page %d.\n", page)
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tName")
			fmt.Fprintln(w, "--\t----")
			for _, wp := range items {
				fmt.Fprintf(w, "%s\t%s\n", wp.ID, wp.DisplayName())
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "page number, starting at 0")
	return cmd
}

func newDownloadCmd(flags *rootFlags, e env) *cobra.Command {
	return &cobra.Command{
		Use:   "download <id|link>",
		Short: "Save a wallpaper to the gallery directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := loadDeps(cmd, flags, e)
			if err != nil {
				return err
			}
			defer deps.Close()

			wp, err := deps.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			path, err := deps.Save(cmd.Context(), wp)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s to %s\n", wp.DisplayName(), path)
			return nil
		},
	}
}

func newApplyCmd(flags *rootFlags, e env) *cobra.Command {
	return &cobra.Command{
		Use:   "apply <id|link>",
		Short: "Download a wallpaper and set it as the desktop background",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := loadDeps(cmd, flags, e)
			if err != nil {
				return err
			}
			defer deps.Close()

			wp, err := deps.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if _, err := deps.Apply(cmd.Context(), wp); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wallpaper set: %s\n", wp.DisplayName())
			return nil
		},
	}
}

func newShareCmd(flags *rootFlags, e env) *cobra.Command {
	return &cobra.Command{
		Use:   "share <id|link>",
		Short: "Print the share link for a wallpaper",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := deeplink.Parse(args[0])
			if err != nil {
				return err
			}
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			link, err := deeplink.ShareURL(cfg.ShareBaseURL, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), link)
			fmt.Fprintln(cmd.OutOrStdout(), deeplink.AppLink(id))
			return nil
		},
	}
}

func newLogsCmd(flags *rootFlags) *cobra.Command {
	var lines int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the end of the application log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			path, err := logging.ExpandPath(cfg.LogFile)
			if err != nil {
				return err
			}
			raw, err := logtail.Read(path, lines)
			if err != nil {
				return err
			}
			if len(raw) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No log entries in %s\n", path)
				return nil
			}
			for _, line := range logtail.FormatLines(raw) {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "number of lines to show, 0 for all")
	return cmd
}
