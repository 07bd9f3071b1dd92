package cmd

import (
	"github.com/hoppxi/nightsvg/internal/manager"
	"github.com/hoppxi/nightsvg/internal/recolor"
	"github.com/hoppxi/nightsvg/internal/ui"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert [src] [dst]",
	Short: "Write a night copy of every *.svg in src into dst (default . and ./night)",
	Args:  cobra.MaximumNArgs(2),
	RunE:  runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := manager.Config.Recolor()
	cfg.DryRun, _ = cmd.Flags().GetBool("dry-run")
	asJSON, _ := cmd.Flags().GetBool("json")

	out := cmd.OutOrStdout()
	// per-icon lines only on a terminal; pipes get the summary
	var obs recolor.Observer
	if !asJSON && (verbose || ui.IsTTY(out)) {
		obs = ui.NewProgress(out)
	}

	rr, err := recolor.Run(cmd.Context(), AppFs, cfg, obs)
	if asJSON {
		if jerr := ui.JSON(out, rr); jerr != nil && err == nil {
			err = jerr
		}
		return err
	}
	if err == nil || rr.Summary.Total > 0 {
		ui.Summary(out, rr)
	}
	return err
}

func init() {
	addRecolorFlags(convertCmd)
	convertCmd.Flags().Bool("dry-run", false, "transform without writing any file")
	convertCmd.Flags().Bool("json", false, "print the run report as JSON")
}
