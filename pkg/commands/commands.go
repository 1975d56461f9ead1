package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/anchor/pkg/app"
	"tableflip.dev/anchor/pkg/commands/options"
	"tableflip.dev/anchor/pkg/store"
)

var (
	output = &options.OutputOptions{}

	config store.Config
	logger = zap.NewNop()
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "anchor",
		Short: base.Wrap80("Grounding phrases for hard moments, with your own phrases layered over the built-in ones."),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			config, err = store.LoadConfig()
			if err != nil {
				return err
			}
			logger, err = newLogger(config.LogLevel())
			return err
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	options.AddOutputArg(cmd, output)
	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addSession(topLevel)
	addPhrases(topLevel)
	addModes(topLevel)
	addReset(topLevel)
	addHint(topLevel)
	addPrefs(topLevel)
	addInfo(topLevel)
	addWatch(topLevel)
	addMigrate(topLevel)
	addMCP(topLevel)
	addCompletions(topLevel)
	addVersion(topLevel)
}

// newLogger writes JSON logs to stderr at level.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log.level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	return cfg.Build()
}

// open builds the engine over the configured storage. Callers close it.
func open() (*app.Service, error) {
	return app.Open(config, logger)
}
