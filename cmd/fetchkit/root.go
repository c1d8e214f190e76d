package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/adamwoolhether/fetchkit"
	"github.com/adamwoolhether/fetchkit/client"
)

const envPrefix = "FETCHKIT"

// config holds the global settings after flags, environment and config
// file have been merged.
type config struct {
	Timeout   time.Duration
	UserAgent string
	RPS       int
	Burst     int
	RequestID bool
	Verbose   bool
}

// app carries state shared by every subcommand of one invocation.
type app struct {
	v      *viper.Viper
	cfg    config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "fetchkit",
		Short:         "Encode query strings and call JSON APIs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (yaml, json or toml)")
	flags.Duration("timeout", 30*time.Second, "overall request timeout")
	flags.String("user-agent", "fetchkit-cli", "User-Agent header sent with every request")
	flags.Int("rps", 0, "requests per second limit, 0 disables throttling")
	flags.Int("burst", 1, "throttle burst size")
	flags.Bool("request-id", false, "stamp requests with a random X-Request-Id")
	flags.BoolP("verbose", "v", false, "log request details to stderr")

	root.AddCommand(
		newQSCmd(),
		newRequestCmd(a, "get"),
		newRequestCmd(a, "post"),
		newRequestCmd(a, "put"),
		newRequestCmd(a, "delete"),
	)

	return root
}

// load merges flags, FETCHKIT_* environment variables and the optional
// config file, flags taking precedence.
func (a *app) load(cmd *cobra.Command) error {
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	if path := a.v.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	a.cfg = config{
		Timeout:   a.v.GetDuration("timeout"),
		UserAgent: a.v.GetString("user-agent"),
		RPS:       a.v.GetInt("rps"),
		Burst:     a.v.GetInt("burst"),
		RequestID: a.v.GetBool("request-id"),
		Verbose:   a.v.GetBool("verbose"),
	}
	if a.cfg.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}

	a.logger = newLogger(cmd.ErrOrStderr(), a.cfg.Verbose)

	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// client builds the dispatcher described by the merged config.
func (a *app) client() (*client.Client, error) {
	opts := []client.Option{
		client.WithTimeout(a.cfg.Timeout),
		client.WithLogger(a.logger),
	}
	if a.cfg.UserAgent != "" {
		opts = append(opts, client.WithUserAgent(a.cfg.UserAgent))
	}
	if a.cfg.RPS > 0 {
		opts = append(opts, client.WithThrottle(a.cfg.RPS, max(a.cfg.Burst, 1)))
	}
	if a.cfg.RequestID {
		opts = append(opts, client.WithRequestID())
	}

	return fetchkit.NewClient(opts...)
}
