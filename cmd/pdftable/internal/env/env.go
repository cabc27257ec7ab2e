// Package env fills unset command flags from environment variables and an
// optional YAML config file.
package env

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const globalPrefix = "pdftable"

var errorMessagePrefix = "error mapping environment variables to command flags"

// CheckEnvironmentVariables sets every flag of command that was not given
// on the command line. Lookup order is PDFTABLE_<CMD>_<FLAG>, then
// PDFTABLE_<FLAG>, then the config file: key <cmd>.<flag>, then <flag>.
// Dashes in flag names become underscores.
func CheckEnvironmentVariables(command *cobra.Command, configFile string) error {
	var errs []string

	global := viper.New()
	global.SetEnvPrefix(globalPrefix)
	global.AutomaticEnv()

	sources := []*viper.Viper{}
	if command.Name() != globalPrefix && command.HasParent() {
		local := viper.New()
		local.SetEnvPrefix(fmt.Sprintf("%s_%s", globalPrefix, command.Name()))
		local.AutomaticEnv()
		sources = append(sources, local)
	}
	sources = append(sources, global)

	set := func(v *viper.Viper, key string, f *pflag.Flag) bool {
		if !v.IsSet(key) {
			return false
		}
		if err := command.Flags().Set(f.Name, flagValue(v.Get(key))); err != nil {
			errs = append(errs, err.Error())
		}
		return true
	}

	command.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			return
		}
		key := strings.ReplaceAll(f.Name, "-", "_")
		for _, v := range sources {
			if set(v, key, f) {
				return
			}
		}
	})

	if configFile == "" {
		if f := command.Flags().Lookup("config"); f != nil {
			configFile = f.Value.String()
		}
	}
	if configFile != "" {
		cfg := viper.New()
		cfg.SetConfigFile(configFile)
		if err := cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
		command.Flags().VisitAll(func(f *pflag.Flag) {
			if f.Changed || f.Name == "config" {
				return
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			if command.HasParent() && set(cfg, command.Name()+"."+key, f) {
				return
			}
			set(cfg, key, f)
		})
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%s: %s", errorMessagePrefix, strings.Join(errs, "; "))
}

// flagValue formats config values for pflag.Set. Lists become comma
// separated, which slice flags accept.
func flagValue(v any) string {
	if list, ok := v.([]any); ok {
		parts := make([]string, len(list))
		for i, item := range list {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprintf("%v", v)
}
