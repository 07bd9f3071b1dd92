package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hoppxi/nightsvg/internal/logx"
	"github.com/hoppxi/nightsvg/internal/manager"
	"github.com/hoppxi/nightsvg/internal/ui"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var Version = "0.2.0"

// AppFs is the filesystem every command works on.
var AppFs = afero.NewOsFs()

var (
	configFile string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:     "nightsvg",
	Version: Version,
	Short:   "Recolor SVG icons for dark backgrounds",
	Long: `nightsvg copies every *.svg in a directory into a "night" directory,
replacing the root tag's fill with fill="white".

Run without a command it converts ./*.svg into ./night.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logx.Init(os.Stderr, verbose)
		if cmd.Name() == "init" || cmd.Name() == "help" {
			return nil
		}

		if err := manager.Config.Load(configFile); err != nil {
			return err
		}
		if used := manager.Config.Used(); used != "" {
			logx.L().Debug("config loaded", "file", used)
		}

		if err := bindRecolorFlags(cmd); err != nil {
			return err
		}
		return applyDirArgs(cmd, args)
	},
	RunE: runConvert,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		ui.Errorf("%v", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ./nightsvg.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	addRecolorFlags(rootCmd)
	rootCmd.Flags().Bool("dry-run", false, "transform without writing any file")
	rootCmd.Flags().Bool("json", false, "print the run report as JSON")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(initCmd)
}
