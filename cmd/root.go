// Package cmd is for command line interactions with the capc application
package cmd

import (
	"log"
	"os"
	"strings"

	"github.com/cbrackley/capC-MAP/config"
	"github.com/cbrackley/capC-MAP/internal/samfrag"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// logger is shared by every command. It writes to stderr so stdout stays
// free for command output.
var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return l
}

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use: "capc",
	Short: `Classify Capture-C read sets into target-reporter interactions.
Count valid interactions per capture target and write them as pairs files`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if viper.GetBool("verbose") {
			logger.SetLevel(logrus.DebugLevel)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().String("config", "", "settings file (YAML, TOML or JSON)")
	RootCmd.PersistentFlags().String("digest-marker", samfrag.DefaultMarker, "token ending the read set name within each read name")
	RootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug messages")

	viper.BindPFlag("config", RootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("digest-marker", RootCmd.PersistentFlags().Lookup("digest-marker"))
	viper.BindPFlag("verbose", RootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads settings from a .env file and the environment (CAPC_*), then
// from the settings file if one was given. Flags take precedence over both.
func initConfig() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warnf("failed to load .env: %v", err)
	}

	viper.SetEnvPrefix("CAPC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
	config.SetDefaults(viper.GetViper())

	if path := viper.GetString("config"); path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			log.Fatalf("failed to read settings file %s: %v", path, err)
		}
		logger.Debugf("using settings file %s", viper.ConfigFileUsed())
	}
}
