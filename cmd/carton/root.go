package carton

import (
	"fmt"

	"github.com/arthur-debert/carton/internal/version"
	"github.com/arthur-debert/carton/pkg/core"
	"github.com/arthur-debert/carton/pkg/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	verbosity int
	root      string
	database  string
	disabled  []string
}

// coreOptions turns the flags into registry options
func (g *globalOptions) coreOptions() core.Options {
	opts := core.Options{Root: g.root, Disabled: g.disabled}
	if g.database != "" {
		opts.Overrides = map[string]interface{}{"database.file": g.database}
	}
	return opts
}

// withCore opens carton, runs fn and shuts carton down whatever fn returns
func (g *globalOptions) withCore(fn func(c *core.Core) error) (err error) {
	c, err := core.Open(g.coreOptions())
	if err != nil {
		return fmt.Errorf(MsgErrOpen, err)
	}
	defer func() {
		if shutdownErr := c.Shutdown(); shutdownErr != nil && err == nil {
			err = shutdownErr
		}
	}()
	return fn(c)
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	g := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "carton",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(g.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf(MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&g.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&g.root, "root", "", MsgFlagRoot)
	rootCmd.PersistentFlags().StringVar(&g.database, "database", "", MsgFlagDatabase)
	rootCmd.PersistentFlags().StringArrayVar(&g.disabled, "disable", nil, MsgFlagDisable)

	rootCmd.AddCommand(newGetCmd(g))
	rootCmd.AddCommand(newSetCmd(g))
	rootCmd.AddCommand(newUnsetCmd(g))
	rootCmd.AddCommand(newUnpackCmd(g))
	rootCmd.AddCommand(newModulesCmd(g))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}
