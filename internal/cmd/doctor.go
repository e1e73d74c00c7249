package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Coffee-Addict4/aseprite-mcp-docker/internal/aseprite"
	"github.com/Coffee-Addict4/aseprite-mcp-docker/internal/exec"
)

// versionProbeTimeout bounds the doctor's --version subprocess.
const versionProbeTimeout = 10 * time.Second

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the Aseprite environment",
	Long: `Check that the Aseprite executable, configuration file, and script
directory are usable, and report what the server would run with.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := ConfigFromContext(ctx)
		executor := exec.New()
		healthy := true

		executable := aseprite.DefaultExecutable
		if cfg != nil && cfg.Aseprite.Path != "" {
			executable = cfg.Aseprite.Path
		}

		if resolved, err := executor.LookPath(executable); err != nil {
			fmt.Printf("%s Aseprite executable not found: %s\n", color.RedString("❌"), executable)
			fmt.Printf("   Install Aseprite or point ASEPRITE_PATH (or aseprite.path in the config) at it\n")
			healthy = false
		} else {
			fmt.Printf("%s Aseprite executable: %s\n", color.GreenString("✅"), resolved)

			client := aseprite.NewClient(executor, &aseprite.Options{Executable: executable})
			res, err := client.Run(ctx, []string{"--version"}, versionProbeTimeout)
			switch {
			case err != nil:
				fmt.Printf("%s Version probe failed: %v\n", color.RedString("❌"), err)
				healthy = false
			case !res.OK():
				fmt.Printf("%s Version probe exited with code %d: %s\n",
					color.RedString("❌"), res.ExitCode, strings.TrimSpace(res.Output))
				healthy = false
			default:
				fmt.Printf("%s Version: %s\n", color.GreenString("✅"), strings.TrimSpace(res.Output))
			}
		}

		if loader := LoaderFromContext(ctx); loader != nil {
			fmt.Printf("%s Config file: %s\n", color.GreenString("✅"), loader.Path())
		} else {
			fmt.Printf("%s Config file could not be loaded\n", color.YellowString("⚠️"))
		}

		scriptDir := os.TempDir()
		if cfg != nil && cfg.Aseprite.ScriptDir != "" {
			scriptDir = cfg.Aseprite.ScriptDir
		}
		if probe, err := os.CreateTemp(scriptDir, "aseprite-doctor-*"); err != nil {
			fmt.Printf("%s Script directory not writable: %s (%v)\n", color.RedString("❌"), scriptDir, err)
			healthy = false
		} else {
			_ = probe.Close()
			_ = os.Remove(probe.Name())
			fmt.Printf("%s Script directory writable: %s\n", color.GreenString("✅"), scriptDir)
		}

		if !healthy {
			return errors.New("environment check failed")
		}

		fmt.Printf("\n%s Ready to serve\n", color.GreenString("✅"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
