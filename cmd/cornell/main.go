package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/totoromaum/h5p-cornell/internal/app"
	"github.com/totoromaum/h5p-cornell/internal/content"
)

// version is stamped by the release build.
var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cornell:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cornell",
		Short: "Cornell note taking in the terminal",
		Long: "cornell runs the Cornell Notes widget inside a terminal host shell.\n" +
			"Notes are cached locally while you type, and saved to the state\n" +
			"database on ctrl+s and on exit.",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRoot,
	}

	pf := cmd.PersistentFlags()
	pf.String("content-dir", "", "directory with content descriptors")
	pf.String("data-dir", "", "directory for the state database and cache")
	pf.String("log", "", "telemetry log file (json lines)")

	flags := cmd.Flags()
	flags.StringP("content", "c", "", "content id to open")
	flags.String("style", "", "ui style variant: ink, parchment, mocha")
	flags.String("motion", "", "animation level: full, reduced, off")
	flags.Int("autosave-ms", 0, "autosave debounce in milliseconds")
	flags.Bool("ascii", false, "draw borders with plain ascii")
	flags.Bool("debug", false, "show layout diagnostics in the header")
	flags.Bool("dev", false, "serve the __dev http endpoints")
	flags.String("dev-http", "", "dev http listen address")
	flags.String("demo", "", "start in a demo scenario: blank, midway, restored, notes-first, fullscreen")

	cmd.AddCommand(listCmd())
	return cmd
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.Run(ctx)
}

// buildConfig layers flag overrides on top of the environment overlay,
// then validates. Only flags the user actually set override the env.
func buildConfig(cmd *cobra.Command) (app.Config, error) {
	cfg, err := app.FromEnv()
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("content-dir") {
		cfg.ContentDir, _ = flags.GetString("content-dir")
	}
	if flags.Changed("data-dir") {
		cfg.DataDir, _ = flags.GetString("data-dir")
	}
	if flags.Changed("log") {
		cfg.LogPath, _ = flags.GetString("log")
	}
	if flags.Changed("content") {
		cfg.ContentID, _ = flags.GetString("content")
	}
	if flags.Changed("style") {
		cfg.UI.StyleVariant, _ = flags.GetString("style")
	}
	if flags.Changed("motion") {
		cfg.UI.MotionLevel, _ = flags.GetString("motion")
	}
	if flags.Changed("autosave-ms") {
		cfg.Editing.AutosaveDebounceMS, _ = flags.GetInt("autosave-ms")
	}
	if flags.Changed("ascii") {
		cfg.ASCIIOnly, _ = flags.GetBool("ascii")
	}
	if flags.Changed("debug") {
		cfg.DebugLayout, _ = flags.GetBool("debug")
	}
	if flags.Changed("dev") {
		cfg.Dev, _ = flags.GetBool("dev")
	}
	if flags.Changed("dev-http") {
		cfg.DevHTTP, _ = flags.GetString("dev-http")
	}
	if flags.Changed("demo") {
		cfg.DemoScenario, _ = flags.GetString("demo")
		cfg.Dev = true
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the content descriptors cornell can open",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd)
			if err != nil {
				return err
			}
			loader := content.NewLoader()
			list, err := loader.LoadDir(cfg.ContentDir)
			if err != nil {
				list = []content.Content{content.Default()}
				fmt.Fprintf(cmd.ErrOrStderr(), "no descriptors in %s, showing the built-in content\n", cfg.ContentDir)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tLANGUAGE")
			for _, c := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\n", c.ContentID, c.Title, c.Language)
			}
			return w.Flush()
		},
	}
}
