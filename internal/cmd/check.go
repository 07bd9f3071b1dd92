package cmd

import (
	"fmt"

	"github.com/hoppxi/nightsvg/internal/manager"
	"github.com/hoppxi/nightsvg/internal/recolor"
	"github.com/hoppxi/nightsvg/internal/ui"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [src] [dst]",
	Short: "Verify that dst holds a recolored copy of every icon in src",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := manager.Config.Recolor().WithDefaults()

		vr, err := recolor.Verify(AppFs, cfg.Src, cfg.Dst, cfg.Fill)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			if err := ui.JSON(out, vr); err != nil {
				return err
			}
		} else {
			ui.Verify(out, vr)
		}

		if !vr.OK() {
			return fmt.Errorf("%s: %d missing, %d extra, %d mismatched",
				cfg.Dst, len(vr.Missing), len(vr.Extra), len(vr.Mismatches))
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().String("fill", "white", "expected fill value")
	checkCmd.Flags().Bool("json", false, "print the verification report as JSON")
}
