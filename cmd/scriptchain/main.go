package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := buildRoot(os.Stdout)
	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GlobalFlags holds persistent flags shared by every subcommand
type GlobalFlags struct {
	ConfigPath string
	Chain      string
	StoreDSN   string
}

// buildRoot creates the root command and its subcommands writing results to out
func buildRoot(out io.Writer) *cobra.Command {
	globalFlags := &GlobalFlags{}
	indexFlags := &IndexFlags{}
	updateFlags := &UpdateFlags{}
	historyFlags := &HistoryFlags{}

	root := createRootCommand(globalFlags)
	root.SetOut(out)

	root.AddCommand(
		createListCommand(globalFlags, out),
		createAddCommand(globalFlags, out),
		createDeleteCommand(globalFlags, indexFlags, out),
		createMoveUpCommand(globalFlags, indexFlags, out),
		createUpdateCommand(globalFlags, updateFlags, out),
		createValidateCommand(globalFlags, out),
		createChainsCommand(globalFlags, out),
		createRemoveCommand(globalFlags, out),
		createHistoryCommand(globalFlags, historyFlags, out),
		createOptionsCommand(globalFlags, out),
	)
	return root
}

// createRootCommand creates the root command with persistent flags
func createRootCommand(flags *GlobalFlags) *cobra.Command {
	root := &cobra.Command{
		Use:   "scriptchain",
		Short: "Edit script chain configurations",
		Long: `Scriptchain maintains ordered lists of script runs ("chains") that a chain
launcher executes one after another. Each entry names a script, the process
names used to detect completion, a timeout and what to do when it is done.

Examples:
  scriptchain --chain=daily add
  scriptchain --chain=daily update --index=0 --script-path=/opt/bgi/BetterGI.exe --script-process=BetterGI.exe --game-process=YuanShen.exe
  scriptchain --chain=daily move-up --index=2
  scriptchain --chain=daily validate`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.ConfigPath, "config", "", "path to TOML config file (optional)")
	root.PersistentFlags().StringVar(&flags.Chain, "chain", "", "chain name (overrides config)")
	root.PersistentFlags().StringVar(&flags.StoreDSN, "store", "", "store DSN: directory, sqlite://path or postgres://... (overrides config)")
	return root
}

// withApp opens the app for a single command run and closes it afterwards
func withApp(cmd *cobra.Command, flags *GlobalFlags, out io.Writer, fn func(c *command) error) error {
	a, err := openApp(cmd.Context(), flags, out)
	if err != nil {
		return err
	}
	defer a.close()
	return fn(&command{app: a})
}

func createListCommand(flags *GlobalFlags, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the entries of a chain in execution order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, out, func(c *command) error { return c.List(cmd.Context()) })
		},
	}
}

func createAddCommand(flags *GlobalFlags, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "add",
		Short: "Append a new entry with default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, out, func(c *command) error { return c.Add(cmd.Context()) })
		},
	}
}

func createDeleteCommand(flags *GlobalFlags, indexFlags *IndexFlags, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the entry at an index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, out, func(c *command) error {
				return c.Delete(cmd.Context(), *indexFlags)
			})
		},
	}
	cmd.Flags().IntVar(&indexFlags.Index, "index", -1, "entry index (required)")
	if err := cmd.MarkFlagRequired("index"); err != nil {
		panic(err)
	}
	return cmd
}

func createMoveUpCommand(flags *GlobalFlags, indexFlags *IndexFlags, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move-up",
		Short: "Move the entry at an index one position earlier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, out, func(c *command) error {
				return c.MoveUp(cmd.Context(), *indexFlags)
			})
		},
	}
	cmd.Flags().IntVar(&indexFlags.Index, "index", -1, "entry index (required)")
	if err := cmd.MarkFlagRequired("index"); err != nil {
		panic(err)
	}
	return cmd
}

func createUpdateCommand(flags *GlobalFlags, updateFlags *UpdateFlags, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change fields of the entry at an index",
		Long: `Change fields of an existing entry. Only the flags given are applied.

Examples:
  scriptchain update --index=0 --check-done=script_closed --kill-game=false
  scriptchain update --index=1 --args='--profile "daily run"' --timeout=1800`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, out, func(c *command) error {
				return c.Update(cmd.Context(), *updateFlags, cmd.Flags().Changed)
			})
		},
	}
	f := cmd.Flags()
	f.IntVar(&updateFlags.Index, "index", -1, "entry index (required)")
	f.StringVar(&updateFlags.ScriptPath, "script-path", "", "path of the script to run")
	f.StringVar(&updateFlags.ScriptProcessName, "script-process", "", "process name of the running script")
	f.StringVar(&updateFlags.GameProcessName, "game-process", "", "process name of the game")
	f.IntVar(&updateFlags.RunTimeoutSeconds, "timeout", 0, "run timeout in seconds")
	f.StringVar(&updateFlags.CheckDone, "check-done", "", "completion method: game_closed, script_closed or game_or_script_closed")
	f.BoolVar(&updateFlags.KillScriptAfterDone, "kill-script", true, "kill the script process when done")
	f.BoolVar(&updateFlags.KillGameAfterDone, "kill-game", true, "kill the game process when done")
	f.StringVar(&updateFlags.ScriptArguments, "args", "", "extra arguments passed to the script")
	f.BoolVar(&updateFlags.NotifyStart, "notify-start", true, "notify when the script starts")
	f.BoolVar(&updateFlags.NotifyDone, "notify-done", true, "notify when the script is done")
	if err := cmd.MarkFlagRequired("index"); err != nil {
		panic(err)
	}
	return cmd
}

func createValidateCommand(flags *GlobalFlags, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check every entry and exit non-zero if any is invalid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, out, func(c *command) error { return c.Validate(cmd.Context()) })
		},
	}
}

func createChainsCommand(flags *GlobalFlags, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "chains",
		Short: "List chain names in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, out, func(c *command) error { return c.Chains(cmd.Context()) })
		},
	}
}

func createRemoveCommand(flags *GlobalFlags, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "remove",
		Short: "Delete the whole chain document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, out, func(c *command) error { return c.Remove(cmd.Context()) })
		},
	}
}

func createHistoryCommand(flags *GlobalFlags, historyFlags *HistoryFlags, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print recent changes recorded for a chain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, out, func(c *command) error {
				return c.History(cmd.Context(), *historyFlags)
			})
		},
	}
	cmd.Flags().IntVar(&historyFlags.Limit, "limit", 20, "maximum number of events")
	return cmd
}

func createOptionsCommand(flags *GlobalFlags, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "Print known completion methods and process names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, out, func(c *command) error { return c.Options() })
		},
	}
}
