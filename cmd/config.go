package cmd

import (
	"github.com/spf13/viper"

	"github.com/spectacles-go/validate/looker"
)

// apiConfigFromFlags builds the analytics API connection config from the
// persistent flags bound onto viper by root.go.
func apiConfigFromFlags() looker.APIConfig {
	return looker.APIConfig{
		BaseURL:      viper.GetString("base-url"),
		ClientID:     viper.GetString("client-id"),
		ClientSecret: viper.GetString("client-secret"),
	}
}
