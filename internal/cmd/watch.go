package cmd

import (
	"github.com/hoppxi/nightsvg/internal/logx"
	"github.com/hoppxi/nightsvg/internal/manager"
	"github.com/hoppxi/nightsvg/internal/ui"
	"github.com/hoppxi/nightsvg/internal/watchers"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [src] [dst]",
	Short: "Convert once, then keep converting icons as they change. Ctrl+C to stop",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := watchers.NewIconWatcher(AppFs, manager.Config.Recolor, ui.NewProgress(cmd.OutOrStdout()))

		err := manager.Config.Watch(cmd.Context(), func(err error) {
			if err != nil {
				logx.L().Warn("config not reloaded", "err", err)
				return
			}
			logx.L().Info("config reloaded", "file", manager.Config.Used())
		})
		if err != nil {
			return err
		}

		return w.Run(cmd.Context())
	},
}

func init() {
	addRecolorFlags(watchCmd)
}
