package carton

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/arthur-debert/carton/internal/version"
	"github.com/arthur-debert/carton/pkg/core"
	"github.com/arthur-debert/carton/pkg/errors"
	"github.com/arthur-debert/carton/pkg/modules/configdb"
	"github.com/arthur-debert/carton/pkg/modules/packer"
	"github.com/arthur-debert/carton/pkg/types"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newGetCmd(g *globalOptions) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "get [key...]",
		Short: MsgGetShort,
		Long:  MsgGetLong,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withCore(func(c *core.Core) error {
				value, err := c.Proc(configdb.ProcGet, types.GetRequest{Path: args, Raw: raw})
				if err != nil {
					return err
				}
				if value == nil && len(args) > 0 {
					return errors.Newf(errors.ErrNotFound, MsgErrKeyNotSet, strings.Join(args, ".")).
						WithDetail("key", args)
				}
				return printYAML(cmd, value)
			})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, MsgFlagRaw)
	return cmd
}

func newSetCmd(g *globalOptions) *cobra.Command {
	var conditions []string

	cmd := &cobra.Command{
		Use:     "set [--if condition]... key... value",
		Short:   MsgSetShort,
		Example: MsgSetExample,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return fmt.Errorf(MsgErrSetArgs)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, literal := args[:len(args)-1], args[len(args)-1]
			value, err := parseValue(literal)
			if err != nil {
				return err
			}

			return g.withCore(func(c *core.Core) error {
				_, err := c.Proc(configdb.ProcSet, types.SetRequest{
					Path:       keys,
					Value:      value,
					Conditions: conditions,
				})
				return err
			})
		},
	}

	cmd.Flags().StringArrayVar(&conditions, "if", nil, MsgFlagIf)
	return cmd
}

func newUnsetCmd(g *globalOptions) *cobra.Command {
	var conditions []string

	cmd := &cobra.Command{
		Use:   "unset [--if condition]... key...",
		Short: MsgUnsetShort,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withCore(func(c *core.Core) error {
				removed, err := c.Proc(configdb.ProcUnset, types.UnsetRequest{
					Path:       args,
					Conditions: conditions,
				})
				if err != nil {
					return err
				}
				if done, _ := removed.(bool); !done {
					fmt.Fprintf(cmd.ErrOrStderr(), MsgRemovedNothing, strings.Join(args, "."))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringArrayVar(&conditions, "if", nil, MsgFlagIf)
	return cmd
}

func newUnpackCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "unpack",
		Short: MsgUnpackShort,
		Long:  MsgUnpackLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withCore(func(c *core.Core) error {
				value, err := c.Proc(packer.ProcUnpack)
				if err != nil {
					return err
				}
				report, ok := value.(*packer.Report)
				if !ok {
					return fmt.Errorf(MsgErrUnexpectedRes, packer.ProcUnpack, value)
				}

				out := cmd.OutOrStdout()
				if len(report.Linked) == 0 && len(report.Removed) == 0 {
					fmt.Fprintln(out, mutedStyle.Render(MsgNothingToDo))
					return nil
				}
				for _, file := range report.Linked {
					fmt.Fprintf(out, MsgLinked, file)
				}
				for _, file := range report.Removed {
					fmt.Fprintf(out, MsgRemoved, file)
				}
				return nil
			})
		},
	}
}

func newModulesCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "modules",
		Short: MsgModulesShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withCore(func(c *core.Core) error {
				data := pterm.TableData{{MsgHeaderModule, MsgHeaderState, MsgHeaderHooks, MsgHeaderProcs}}
				for _, name := range c.Loaded() {
					m, err := c.Module(name)
					if err != nil {
						return err
					}
					state := MsgStateEnabled
					if enabled, _ := c.IsEnabled(name); !enabled {
						state = MsgStateDisabled
					}
					data = append(data, []string{
						name,
						state,
						strings.Join(m.Handlers().HookNames(), ", "),
						strings.Join(m.Handlers().ProcNames(), ", "),
					})
				}

				table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		Run: func(cmd *cobra.Command, args []string) {
			var err error
			switch args[0] {
			case "bash":
				err = cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				err = cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				err = cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				err = cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			if err != nil {
				log.Error().Err(err).Str("shell", args[0]).Msg("Failed to generate completion")
			}
		},
	}
}

// parseValue reads a command-line value as a YAML scalar, list or mapping
func parseValue(literal string) (interface{}, error) {
	var value interface{}
	if err := yaml.Unmarshal([]byte(literal), &value); err != nil {
		return nil, fmt.Errorf(MsgErrParseValue, literal, err)
	}
	return value, nil
}

func printYAML(cmd *cobra.Command, value interface{}) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(value); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := cmd.OutOrStdout().Write(buf.Bytes())
	return err
}
