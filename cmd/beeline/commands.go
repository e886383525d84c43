package main

import (
	"fmt"
	"math"
	"strconv"

	"github.com/nicolagi/beeminder"
	"github.com/nicolagi/beeminder/edit"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// UsageError means the command line is wrong. It is printed along with the command's usage.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string {
	return e.Msg
}

func usageErrorf(format string, args ...interface{}) *UsageError {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}

// checkArgs is used instead of cobra's argument validators, which run before the configuration is loaded.
func checkArgs(args []string, min, max int) error {
	switch {
	case len(args) < min:
		return usageErrorf("expected at least %d arguments, got %d", min, len(args))
	case len(args) > max:
		return usageErrorf("expected at most %d arguments, got %d", max, len(args))
	default:
		return nil
	}
}

func newRootCommand(a *app) *cobra.Command {
	var debug bool
	root := &cobra.Command{
		Use:   "beeline",
		Short: "Command-line client for Beeminder",
		Long: `A command-line client for Beeminder (https://www.beeminder.com).

The personal auth token must be in the BEEMINDER_API_KEY environment variable.
The edit command opens $EDITOR; EDITOR=acme edits in an acme window instead.
Other settings can be put in ~/.config/beeline/config.yaml.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.HasParent() || cmd.Name() == "help" {
				return nil
			}
			return a.setup(debug)
		},
		// Only reached without a known subcommand.
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return usageErrorf("unknown command %q", args[0])
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "log API requests to stderr")
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &UsageError{Msg: err.Error()}
	})
	root.CompletionOptions.DisableDefaultCmd = true
	root.AddCommand(a.listCommand(), a.addCommand(), a.editCommand(), a.backupCommand())
	return root
}

// setup loads the configuration and creates the client. No remote call is made.
func (a *app) setup(debug bool) error {
	cfg, err := loadConfig(a.getenv)
	if err != nil {
		return err
	}
	if debug || cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}
	c, err := a.connect(cfg)
	if err != nil {
		return fmt.Errorf("could not create client: %w", err)
	}
	a.cfg = cfg
	a.client = c
	a.editor = a.newEditor(cfg)
	return nil
}

func (a *app) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active goals, most urgent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkArgs(args, 0, 0); err != nil {
				return err
			}
			goals, err := a.client.Goals()
			if err != nil {
				return err
			}
			printGoals(a.stdout, goals, a.now().In(a.loc))
			return nil
		},
	}
}

func (a *app) addCommand() *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:     "add <goal> <value> [<comment>]",
		Short:   "Add a datapoint to a goal",
		Example: "  beeline add fitness 30 \"morning run\"\n  beeline add --time \"2024-03-01 21:00\" reading 12",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkArgs(args, 2, 3); err != nil {
				return err
			}
			goal, raw := args[0], args[1]
			value, err := strconv.ParseFloat(raw, 64)
			if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
				return usageErrorf("value %q is not a number", raw)
			}
			t := a.now()
			if at != "" {
				if t, err = edit.ParseTime(at, a.loc); err != nil {
					return usageErrorf("time %q: want format %q, offset and time of day optional", at, edit.TimeLayout)
				}
			}
			patch := beeminder.NewDatapointPatch().WithValue(value).WithTime(t)
			if len(args) == 3 {
				patch.WithComment(args[2])
			}
			dp, err := a.client.CreateDatapoint(goal, patch)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(a.stdout, dp.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "time", "", "timestamp of the datapoint, as \"YYYY-MM-DD hh:mm:ss\" (default now)")
	return cmd
}

func (a *app) editCommand() *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "edit <goal>",
		Short: "Edit the most recent datapoints of a goal in a text editor",
		Long: `Edit the most recent datapoints of a goal in a text editor.

Each datapoint is a block of "field: value" lines. Delete a block to delete the
datapoint, change it to update the datapoint, add a block without id to create
one. If the changes can't be applied, the edited text is saved and can be
retried with --from.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkArgs(args, 1, 1); err != nil {
				return err
			}
			return a.edit(args[0], from)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "start from a previously saved edit buffer")
	return cmd
}

func (a *app) backupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "backup [<file>]",
		Short: "Save all goals and datapoints to a JSON or YAML file",
		Long: `Save all active and archived goals, with all their datapoints, to a file.
The file is YAML if its name ends in .yaml or .yml, JSON otherwise.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkArgs(args, 0, 1); err != nil {
				return err
			}
			filename := "beedata.json"
			if len(args) == 1 {
				filename = args[0]
			}
			return a.backup(filename)
		},
	}
}
