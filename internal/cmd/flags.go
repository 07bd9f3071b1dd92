package cmd

import (
	"fmt"

	"github.com/hoppxi/nightsvg/internal/manager"
	"github.com/ncruces/zenity"
	"github.com/spf13/cobra"
)

// flag name -> config key
var recolorFlagKeys = map[string]string{
	"fill":       manager.KeyFill,
	"strip-all":  manager.KeyStripAll,
	"jobs":       manager.KeyJobs,
	"keep-going": manager.KeyKeepGoing,
	"mkdir":      manager.KeyCreateDst,
}

func addRecolorFlags(cmd *cobra.Command) {
	cmd.Flags().String("fill", "white", "fill value forced onto the root <svg> tag")
	cmd.Flags().Bool("strip-all", false, "remove every fill attribute of the root tag, not just the first")
	cmd.Flags().IntP("jobs", "j", 1, "icons converted in parallel (1-32)")
	cmd.Flags().Bool("keep-going", false, "convert the remaining icons after a failure and report a summary")
	cmd.Flags().Bool("mkdir", false, "create the destination directory if it is missing")
	cmd.Flags().Bool("select", false, "pick the source directory with a file dialog")
}

func bindRecolorFlags(cmd *cobra.Command) error {
	for name, key := range recolorFlagKeys {
		if err := manager.Config.BindFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return err
		}
	}
	return nil
}

// applyDirArgs maps [src] [dst] positional args and --select onto the config.
func applyDirArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		manager.Config.Set(manager.KeySrc, args[0])
	}
	if len(args) > 1 {
		manager.Config.Set(manager.KeyDst, args[1])
	}

	if sel, _ := cmd.Flags().GetBool("select"); sel {
		dir, err := selectSourceDir()
		if err != nil {
			return err
		}
		manager.Config.Set(manager.KeySrc, dir)
	}
	return nil
}

func selectSourceDir() (string, error) {
	dir, err := zenity.SelectFile(
		zenity.Title("Select icon directory"),
		zenity.Directory(),
	)
	if err != nil {
		return "", fmt.Errorf("select source directory: %w", err)
	}
	return dir, nil
}
