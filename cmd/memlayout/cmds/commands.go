package cmds

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-delve/memlayout/pkg/config"
	"github.com/go-delve/memlayout/pkg/layout"
	"github.com/go-delve/memlayout/pkg/logflags"
	"github.com/go-delve/memlayout/pkg/version"
)

var (
	// log is whether to log debug statements.
	log bool
	// logOutput is a comma separated list of components that should produce debug output.
	logOutput string
	// logDest is the file path or file descriptor where logs should go.
	logDest string
	// verbose makes the version command print build information.
	verbose bool

	// rootCommand is the root of the command tree.
	rootCommand *cobra.Command

	conf *config.Config
	// confResult is the outcome of loading conf, logged once logging is set up.
	confResult config.LoadResult

	loadConfig = config.LoadConfig
)

const memlayoutCommandLongDesc = `memlayout shows where things live in the memory of a running Go program.

It prints the address of the program's main function, of a global variable,
of a local variable of the entry context and of a local variable in each of
the first 5 frames of a recursive call chain.`

// New returns an initialized command tree. entry is the function whose
// address is reported first, normally the program's main.
func New(entry func()) *cobra.Command {
	conf, confResult = loadConfig()

	// Main memlayout root command.
	rootCommand = &cobra.Command{
		Use:           "memlayout",
		Short:         "memlayout prints the addresses of a function, a global and stack frames.",
		Long:          memlayoutCommandLongDesc,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return reportCmd(cmd, entry)
		},
	}

	rootCommand.PersistentFlags().BoolVarP(&log, "log", "", false, "Enable logging.")
	rootCommand.PersistentFlags().StringVarP(&logOutput, "log-output", "", "", `Comma separated list of components that should produce debug output (see 'memlayout help log')`)
	rootCommand.PersistentFlags().StringVarP(&logDest, "log-dest", "", "", "Writes logs to the specified file or file descriptor (see 'memlayout help log').")

	// 'version' subcommand.
	versionCommand := &cobra.Command{
		Use:   "version",
		Short: "Prints version.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "memlayout\n%s\n", version.MemlayoutVersion)
			if verbose {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", version.BuildInfo())
			}
		},
	}
	versionCommand.Flags().BoolVarP(&verbose, "verbose", "v", false, "print verbose version info")
	rootCommand.AddCommand(versionCommand)

	rootCommand.AddCommand(&cobra.Command{
		Use:   "log",
		Short: "Help about logging flags.",
		Long: `Logging can be enabled by specifying the --log flag and using the
--log-output flag to select which components should produce logs.

The argument of --log-output must be a comma separated list of component
names selected from this list:


	layout		Log every reported address with the mapping that holds it
	memmap		Log the memory map of the process
	config		Log configuration loading

Additionally --log-dest can be used to specify where the logs should be
written.
If the argument is a number it will be interpreted as a file descriptor,
otherwise as a file path.

The keys log-output and log-dest of $HOME/.memlayout/config.yml provide
defaults for --log-output and --log-dest.
`,
	})

	rootCommand.DisableAutoGenTag = true

	return rootCommand
}

var errNoEntry = errors.New("no entry function")

func reportCmd(cmd *cobra.Command, entry func()) error {
	if entry == nil {
		return errNoEntry
	}
	logFlag, logstr, dest := logSettings(cmd)
	if err := logflags.Setup(logFlag, logstr, dest); err != nil {
		return err
	}
	defer logflags.Close()
	confResult.Log(conf)

	return layout.New(cmd.OutOrStdout(), entry).Run()
}

// logSettings merges the logging flags with the defaults found in the
// configuration file. Flags set on the command line win.
func logSettings(cmd *cobra.Command) (bool, string, string) {
	logFlag, logstr, dest := log, logOutput, logDest
	if conf == nil {
		return logFlag, logstr, dest
	}
	flags := cmd.Flags()
	if !flags.Changed("log-output") && conf.LogOutput != "" {
		logstr = conf.LogOutput
		if !flags.Changed("log") {
			logFlag = true
		}
	}
	if !flags.Changed("log-dest") && conf.LogDest != "" {
		dest = conf.LogDest
	}
	return logFlag, logstr, dest
}
