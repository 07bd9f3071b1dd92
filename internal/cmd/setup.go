package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/hoppxi/nightsvg/config"
	"github.com/hoppxi/nightsvg/internal/manager"
	"github.com/hoppxi/nightsvg/internal/recolor"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const configFileName = manager.ConfigName + ".yaml"

// FileConfig is the on-disk layout of nightsvg.yaml.
type FileConfig struct {
	Src       string `yaml:"src"`
	Dst       string `yaml:"dst"`
	Fill      string `yaml:"fill"`
	StripAll  bool   `yaml:"strip_all"`
	Jobs      int    `yaml:"jobs"`
	KeepGoing bool   `yaml:"keep_going"`
	CreateDst bool   `yaml:"create_dst"`
}

// DefaultFileConfig decodes the embedded default config file.
func DefaultFileConfig() (FileConfig, error) {
	var fc FileConfig
	if err := yaml.Unmarshal(config.DefaultYAML(), &fc); err != nil {
		return FileConfig{}, err
	}
	return fc, nil
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default " + configFileName + " into the current directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		out := cmd.OutOrStdout()

		if exists, _ := afero.Exists(AppFs, configFileName); exists && !force {
			reader := bufio.NewReader(cmd.InOrStdin())
			if !confirm(reader, out, configFileName+" already exists. Overwrite?") {
				return nil
			}
		}

		fc, err := DefaultFileConfig()
		if err != nil {
			return err
		}
		if err := afero.WriteFile(AppFs, configFileName, config.DefaultYAML(), 0o644); err != nil {
			return err
		}
		dirs := recolor.Config{Src: fc.Src, Dst: fc.Dst}.WithDefaults()
		fmt.Fprintf(out, "wrote %s (src=%s dst=%s fill=%s)\n", configFileName, dirs.Src, dirs.Dst, fc.Fill)
		return nil
	},
}

func confirm(r *bufio.Reader, w io.Writer, message string) bool {
	fmt.Fprintf(w, "%s (y/N): ", message)
	input, _ := r.ReadString('\n')
	input = strings.ToLower(strings.TrimSpace(input))
	return input == "y" || input == "yes"
}

func init() {
	initCmd.Flags().Bool("force", false, "overwrite an existing config file without asking")
}
