package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"sherlock13/internal/config"
	"sherlock13/internal/logger"
	"sherlock13/internal/server"
)

const releaseVersion = "1.0.0"

func main() {
	cobra.CheckErr(newCmd(config.Load()).Execute())
}

func newCmd(cfg *config.Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("SHERLOCK13")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:     "sherlock13-server",
		Short:   "Four-seat deduction game session server.",
		Args:    cobra.ExactArgs(0),
		Version: releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger.Init(cfg.LogLevel, cfg.LogJSON)

			srv, err := server.New(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&cfg.Bind, "bind", "b", cfg.Bind, "address to bind to (env: SHERLOCK13_BIND)")
	fs.IntVarP(&cfg.GamePort, "port", "p", cfg.GamePort, "game line-protocol port (env: SHERLOCK13_PORT)")
	fs.IntVar(&cfg.HTTPPort, "http-port", cfg.HTTPPort, "observer api port (env: SHERLOCK13_HTTP_PORT)")
	fs.DurationVar(&cfg.DialTimeout, "dial-timeout", cfg.DialTimeout, "per-delivery dial timeout (env: SHERLOCK13_DIAL_TIMEOUT)")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "deck shuffle seed, 0 for random (env: SHERLOCK13_SEED)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error (env: SHERLOCK13_LOG_LEVEL)")
	fs.BoolVar(&cfg.LogJSON, "log-json", cfg.LogJSON, "emit logs as json (env: SHERLOCK13_LOG_JSON)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetVersionTemplate("sherlock13-server v{{.Version}}\n")
	cmd.SilenceUsage = true

	return cmd
}
