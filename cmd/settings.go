package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// settingsCmd prints the merged settings, to check what a run would use
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Print the settings in effect after merging flags, environment and settings file",
	Run: func(cmd *cobra.Command, args []string) {
		b, err := yaml.Marshal(viper.AllSettings())
		if err == nil {
			fmt.Print(string(b))
		}
	},
}

func init() {
	RootCmd.AddCommand(settingsCmd)
}
