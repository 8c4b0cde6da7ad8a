// Package cli implements the contenthub commands.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kuberocketai/contenthub/internal/config"
	logpkg "github.com/kuberocketai/contenthub/internal/logger"
)

// Output formats for the one-shot commands.
const (
	formatText = "text"
	formatJSON = "json"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	env        string
}

// RootCmd is the top-level command.
var RootCmd = NewRootCmd()

// NewRootCmd builds the command tree with fresh flag state.
func NewRootCmd() *cobra.Command {
	gf := &globalFlags{}
	root := &cobra.Command{
		Use:           "contenthub",
		Short:         "Search and filter engine for the KubeRocketAI content hub",
		Long:          "Loads the agent, task, data file and template collections and serves filtered, categorized views of them.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&gf.configPath, "config", "c", "", "Config file path (default: config/$ENV.yaml)")
	root.PersistentFlags().StringVarP(&gf.env, "env", "e", "", "Environment name (default: $ENV or local)")

	root.AddCommand(
		newServeCmd(gf),
		newSearchCmd(gf),
		newValidateCmd(gf),
		newVersionCmd(),
	)
	return root
}

func (gf *globalFlags) environment() string {
	if gf.env != "" {
		return gf.env
	}
	return config.GetEnv()
}

func (gf *globalFlags) loadConfig() (config.Config, error) {
	if gf.configPath != "" {
		return config.LoadFile(gf.configPath)
	}
	return config.Load(gf.environment())
}

// cliLogger logs to stderr at warn level or above so command output stays clean.
func (gf *globalFlags) cliLogger() (*zap.Logger, error) {
	env := gf.environment()
	if env != "prod" && env != "test" {
		env = "local"
	}
	return logpkg.NewLogger(env, "warn")
}

func validateFormat(format string) error {
	switch format {
	case formatText, formatJSON:
		return nil
	}
	return fmt.Errorf("unknown format %q (want text or json)", format)
}

func writeLine(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format+"\n", args...)
}
