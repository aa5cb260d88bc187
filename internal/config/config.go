// Package config resolves CLI settings from flags and the environment.
package config

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cfworkers/internal/api"
)

const (
	KeyAPIToken  = "token"
	KeyAccountID = "account"
	KeyAPIURL    = "api-url"
	KeyLogLevel  = "log-level"
	KeyDebug     = "debug"

	EnvAPIToken  = "CLOUDFLARE_API_TOKEN"
	EnvAccountID = "CLOUDFLARE_ACCOUNT_ID"
	EnvAPIURL    = "CLOUDFLARE_API_URL"
	EnvLogLevel  = "CFWORKERS_LOG_LEVEL"
)

// Settings is the resolved configuration for one invocation.
type Settings struct {
	APIToken  string
	AccountID string
	APIURL    string
	LogLevel  string
	Debug     bool
}

// Credentials returns the session credentials contained in s.
func (s Settings) Credentials() api.Credentials {
	return api.Credentials{APIToken: s.APIToken, AccountID: s.AccountID}
}

// AddFlags registers the global flags on cmd.
func AddFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String(KeyAPIToken, "", "Cloudflare API Token (env "+EnvAPIToken+")")
	flags.String(KeyAccountID, "", "Cloudflare Account ID (env "+EnvAccountID+")")
	flags.String(KeyAPIURL, api.DefaultBaseURL, "Cloudflare API base URL")
	flags.String(KeyLogLevel, "warn", "Diagnostic log level (debug, info, warn, error)")
	flags.Bool(KeyDebug, false, "Shorthand for --log-level=debug")
	_ = flags.MarkHidden(KeyAPIURL)
}

// New returns a viper instance bound to the flags registered by AddFlags and
// to their environment variables. Flags take precedence over the environment.
func New(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()

	envs := map[string]string{
		KeyAPIToken:  EnvAPIToken,
		KeyAccountID: EnvAccountID,
		KeyAPIURL:    EnvAPIURL,
		KeyLogLevel:  EnvLogLevel,
	}
	for key, env := range envs {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", env, err)
		}
	}

	for _, key := range []string{KeyAPIToken, KeyAccountID, KeyAPIURL, KeyLogLevel, KeyDebug} {
		flag := cmd.Flags().Lookup(key)
		if flag == nil {
			flag = cmd.Root().PersistentFlags().Lookup(key)
		}
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("error binding flag --%s: %w", key, err)
		}
	}

	return v, nil
}

// Load reads the settings out of v.
func Load(v *viper.Viper) Settings {
	s := Settings{
		APIToken:  v.GetString(KeyAPIToken),
		AccountID: v.GetString(KeyAccountID),
		APIURL:    v.GetString(KeyAPIURL),
		LogLevel:  v.GetString(KeyLogLevel),
		Debug:     v.GetBool(KeyDebug),
	}
	if s.APIURL == "" {
		s.APIURL = api.DefaultBaseURL
	}
	if s.Debug {
		s.LogLevel = "debug"
	}
	return s
}
