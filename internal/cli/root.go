// Package cli implements the wordcloud command line.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DINAL11/3D-Word-Cloud-Dinal/internal/config"
	"github.com/DINAL11/3D-Word-Cloud-Dinal/internal/logger"
	"github.com/DINAL11/3D-Word-Cloud-Dinal/internal/service"
)

// app is built once flags are parsed and shared by the subcommands.
type app struct {
	version string
	cfg     *config.Config
	log     logger.Logger
	svc     *service.Service
}

type globalFlags struct {
	configFile string
	envFile    string
	logLevel   string
	logJSON    bool
}

// NewRootCmd returns the wordcloud command tree.
func NewRootCmd(version string) *cobra.Command {
	a := &app{version: version}
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "wordcloud",
		Short:         "Extract weighted keywords from articles for word clouds",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd, flags)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "path to a YAML config file")
	pf.StringVar(&flags.envFile, "env-file", ".env", "dotenv file read before the environment; ignored when missing")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error, disabled)")
	pf.BoolVar(&flags.logJSON, "log-json", false, "log as JSON")

	root.AddCommand(
		newAnalyzeCmd(a),
		newBatchCmd(a),
		newServeCmd(a),
		newMCPCmd(a),
		newStopwordsCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, flags *globalFlags) error {
	loader := &config.Loader{ConfigFile: flags.configFile, EnvFile: flags.envFile}
	cfg, err := loader.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	if cmd.Flags().Changed("log-json") {
		cfg.Log.JSON = flags.logJSON
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = logger.LogLevel(cfg.Log.Level)
	logCfg.JSON = cfg.Log.JSON
	logCfg.Output = cmd.ErrOrStderr()
	log := logger.NewLogger(logCfg)

	svc, err := service.New(cfg, nil)
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}
	a.cfg, a.log, a.svc = cfg, log, svc
	cmd.SetContext(logger.ContextWithLogger(cmd.Context(), log))
	return nil
}
