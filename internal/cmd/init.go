package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Coffee-Addict4/aseprite-mcp-docker/internal/aseprite"
	"github.com/Coffee-Addict4/aseprite-mcp-docker/internal/config"
	"github.com/Coffee-Addict4/aseprite-mcp-docker/internal/exec"
	"github.com/Coffee-Addict4/aseprite-mcp-docker/internal/prompt"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactively create the configuration file",
	Long: `Walk through the configuration options and write the config file.

Prompts for the Aseprite executable and the command timeout, probes the
executable on PATH, and persists the answers.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit(prompt.New())
	},
}

func runInit(p prompt.Prompter) error {
	loader, err := config.NewLoader()
	if err != nil {
		return fmt.Errorf("init config loader: %w", err)
	}
	if _, err := loader.Load(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	executable, err := p.Input("Aseprite executable", aseprite.DefaultExecutable, nil)
	if err != nil {
		return err
	}
	if executable == "" {
		executable = aseprite.DefaultExecutable
	}

	if resolved, err := exec.New().LookPath(executable); err == nil {
		p.Print("Found " + resolved)
	} else {
		p.Print("Warning: " + executable + " is not on PATH; the server will fail until it is installed")
	}

	timeout, err := p.Input("Command timeout", aseprite.DefaultTimeout.String(), validateTimeout)
	if err != nil {
		return err
	}
	if timeout == "" {
		timeout = aseprite.DefaultTimeout.String()
	}

	ok, err := p.Confirm("Write configuration?", loader.Path())
	if err != nil {
		return err
	}
	if !ok {
		p.Print("Nothing written.")
		return nil
	}

	if err := loader.Set("aseprite.path", executable); err != nil {
		return err
	}
	if err := loader.Set("aseprite.timeout", timeout); err != nil {
		return err
	}

	p.Print("Configuration written to " + loader.Path())
	return nil
}

func validateTimeout(s string) error {
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return errors.New("use a duration like 30s or 2m")
	}
	if d < time.Second {
		return errors.New("timeout must be at least 1s")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(initCmd)
}
