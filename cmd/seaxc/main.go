package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/seax-io/seax/compiler"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var red = color.New(color.FgRed).SprintFunc()

var outputFormatsCompletion = []string{"json", "text"}

// app holds the configuration shared by all commands.
type app struct {
	v *viper.Viper
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	root := &cobra.Command{
		Use:           "seaxc",
		Short:         "Compile Scheme syntax trees into SECD code lists",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.initConfig(cmd); err != nil {
				return err
			}
			a.processGlobalFlags(cmd)
			return nil
		},
	}
	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.seax.yaml)")
	flags.Bool("no-color", false, "Disable colored output")
	flags.String("log-level", "warn", "Log level (trace, debug, info, warn, error)")
	flags.StringSlice("globals", nil, "Names bound in the initial environment, in slot order")
	flags.Int("max-depth", compiler.DefaultMaxDepth, "Maximum expression nesting depth")
	for _, name := range []string{"no-color", "log-level", "globals", "max-depth"} {
		if err := a.v.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	root.AddCommand(
		a.newCompileCmd(),
		a.newDisCmd(),
		a.newAstCmd(),
		a.newVersionCmd(),
	)
	return root
}

// initConfig reads the config file and SEAX_ environment variables. A
// missing default config file is not an error; a missing file named with
// --config is.
func (a *app) initConfig(cmd *cobra.Command) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	if cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return err
		}
		a.v.AddConfigPath(home)
		a.v.SetConfigName(".seax")
		a.v.SetConfigType("yaml")
	}
	a.v.SetEnvPrefix("seax")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// Reads global flags from Viper and adjusts the environment accordingly.
func (a *app) processGlobalFlags(cmd *cobra.Command) {
	if a.v.GetBool("no-color") || !isTerminal(cmd.OutOrStdout()) {
		color.NoColor = true
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprint(os.Stderr, formatError(err))
		os.Exit(1)
	}
}
