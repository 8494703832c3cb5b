package cmd

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spectacles-go/validate/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "spectacles",
	Short: "Validate the SQL generated by every dimension of a LookML project",
	Long:  `spectacles drives the analytics API's query task pipeline to validate that every dimension in a LookML project compiles to working SQL.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen once
// to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .spectacles.yaml)")
	rootCmd.PersistentFlags().String("log", "info", "Set the log level. Valid values: panic, fatal, error, warn, info, debug, trace")
	rootCmd.PersistentFlags().Bool("json-log", false, "Set to true to emit logs as json for easier parsing")

	// analytics API connection
	rootCmd.PersistentFlags().String("base-url", "", "The base URL of the analytics API, e.g. https://instance.looker.com:19999/api/4.0")
	rootCmd.PersistentFlags().String("client-id", "", "API3 client ID")
	rootCmd.PersistentFlags().String("client-secret", "", "API3 client secret")

	viper.BindPFlags(rootCmd.PersistentFlags())
	viper.BindEnv("client-id", "LOOKER_CLIENT_ID")
	viper.BindEnv("client-secret", "LOOKER_CLIENT_SECRET")
	viper.BindEnv("base-url", "LOOKER_BASE_URL")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		lvl, err := log.ParseLevel(viper.GetString("log"))
		if err != nil {
			log.WithFields(log.Fields{"level": viper.GetString("log"), "err": err}).Errorf("couldn't parse `log` config, defaulting to `info`")
			lvl = log.InfoLevel
		}
		log.SetLevel(lvl)

		if viper.GetBool("json-log") {
			logging.ConfigureLogrusJSON(log.StandardLogger())
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".spectacles")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	replacer := strings.NewReplacer("-", "_")
	viper.SetEnvKeyReplacer(replacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.Infof("Using config file: %v", viper.ConfigFileUsed())
	}
}
