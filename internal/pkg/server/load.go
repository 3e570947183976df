package server

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/kiosk404/herald/pkg/logger"
	"github.com/spf13/viper"
)

// LoadConfig reads in config file and ENV variables if set.
// Used by clients that do not go through pkg/app.
func LoadConfig(cfg string, defaultName string) {
	if cfg != "" {
		viper.SetConfigFile(cfg)
	} else {
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, RecommendedHomeDir))
		}
		viper.AddConfigPath("/etc/herald")
		viper.SetConfigName(defaultName)
	}

	viper.SetConfigType("yaml")
	viper.AutomaticEnv()
	viper.SetEnvPrefix(RecommendedEnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if err := viper.ReadInConfig(); err != nil {
		logger.Debug("[Config] no config file loaded for %s: %v", defaultName, err)
	}
}
