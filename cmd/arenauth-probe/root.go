package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"

	arenauth "github.com/gambitworks/arenauth"
)

// Global flags available to all subcommands.
var (
	configFile string
	baseURL    string
	verbose    bool
)

// NewRootCmd creates the root command for the probe CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "arenauth-probe",
		Short: "Smoke-test the tournament platform auth flows",
		Long: `arenauth-probe drives the login, signup, and password-reset flows
against a configured backend and reports each state transition, for
verifying a deployment end to end.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (YAML)")
	cmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "backend origin, overrides the config file")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(newSessionCmd())
	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newForgotCmd())

	return cmd
}

// loadConfig merges the library defaults, the optional YAML file, and the
// command line flags, in that order.
func loadConfig() (arenauth.Config, error) {
	cfg := arenauth.DefaultConfig()
	cfg.Backend.UserAgent = "arenauth-probe/1"

	k := koanf.New(".")
	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return cfg, fmt.Errorf("load config %s: %w", configFile, err)
		}
	}

	if v := k.String("backend.base_url"); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := k.String("backend.user_agent"); v != "" {
		cfg.Backend.UserAgent = v
	}
	if v := k.Duration("http.request_timeout"); v > 0 {
		cfg.HTTP.RequestTimeout = v
	}
	if v := k.Int("validation.otp_digits"); v > 0 {
		cfg.Validation.OTPDigits = v
	}
	if v := k.Int("validation.min_password_length"); v > 0 {
		cfg.Validation.MinPasswordLength = v
	}
	if v := k.Duration("cache.default_ttl"); v > 0 {
		cfg.Cache.DefaultTTL = v
	}

	if baseURL != "" {
		cfg.Backend.BaseURL = baseURL
	}

	if cfg.Backend.BaseURL == "" {
		return cfg, fmt.Errorf("backend base URL required: set --base-url or backend.base_url in the config file")
	}
	return cfg, nil
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// buildEngine wires an Engine for one probe run. Audit events go to stderr
// as JSON lines when verbose is set.
func buildEngine() (*arenauth.Engine, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	builder := arenauth.New().
		WithConfig(cfg).
		WithLogger(newLogger())

	if verbose {
		builder = builder.WithAuditSink(arenauth.NewJSONWriterSink(os.Stderr))
	}

	return builder.Build()
}

func printSnapshot(cmd *cobra.Command, engine *arenauth.Engine) {
	snap := engine.Snapshot()
	if snap.User != nil {
		cmd.Printf("user: %s (%s)\n", snap.User.Email, snap.User.Role)
	} else {
		cmd.Println("user: anonymous")
	}
	if snap.OtpSent {
		cmd.Println("otp: sent")
		if snap.PreviewURL != "" {
			cmd.Printf("preview: %s\n", snap.PreviewURL)
		}
	}
	if snap.RestoreInfo != nil {
		cmd.Printf("restore offer: user %s (%s): %s\n",
			snap.RestoreInfo.UserID, snap.RestoreInfo.Role, snap.RestoreInfo.Message)
	}
	if snap.RedirectURL != "" {
		cmd.Printf("redirect: %s\n", snap.RedirectURL)
	}
	if snap.Err != "" {
		cmd.Printf("error: %s\n", snap.Err)
	}
	cmd.Printf("forgot-password step: %s\n", snap.ForgotPasswordStep)
}
