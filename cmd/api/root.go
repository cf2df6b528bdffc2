package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ewilliams-labs/stalify/internal/config"
)

// app carries the state shared by every subcommand.
type app struct {
	v       *viper.Viper
	cfgFile string
	envFile string
}

// newRootCmd builds the command tree. Each call gets its own viper instance so
// tests can run commands side by side.
func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "stalify",
		Short:         "Spotify listening statistics and insights",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.stalify.yaml)")
	flags.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before the environment is read")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("timezone", "UTC", "IANA zone used to bucket listening history")
	flags.String("spotify-api-base-url", "", "Spotify Web API base URL")
	flags.Int("spotify-max-retries", 1, "attempts per Spotify call; 1 disables retry")

	a.bind(flags, map[string]string{
		"log-level":            config.KeyLogLevel,
		"timezone":             config.KeyTimezone,
		"spotify-api-base-url": config.KeySpotifyAPIBaseURL,
		"spotify-max-retries":  config.KeySpotifyMaxRetries,
	})

	root.AddCommand(a.newServeCmd(), a.newReportCmd())
	return root
}

// bind maps flag names onto config keys. An unset flag does not shadow the
// environment or the config file.
func (a *app) bind(flags *pflag.FlagSet, keys map[string]string) {
	for name, key := range keys {
		if err := a.v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}
}

// initConfig layers .env, defaults, the environment and the config file.
func (a *app) initConfig(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(a.envFile); err != nil {
		return err
	}
	config.SetDefaults(a.v)

	used, err := config.ReadConfigFile(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	if used != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "Using config file:", used)
	}
	return nil
}
