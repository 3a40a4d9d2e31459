package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/goliatone/go-briefing/internal/config"
	"github.com/goliatone/go-briefing/internal/logging"
	"github.com/goliatone/go-briefing/internal/tracing"
	"github.com/goliatone/go-briefing/pkg/composer"
	"github.com/goliatone/go-briefing/pkg/registry"
)

// app carries what PersistentPreRunE loads for the subcommands.
type app struct {
	cfgFile string
	v       *viper.Viper
	cfg     config.Config
	logger  *zap.Logger
	tracer  *tracing.Provider
}

func newApp() *app {
	return &app{v: viper.New(), logger: zap.NewNop()}
}

func newRootCmd() *cobra.Command {
	a := newApp()

	root := &cobra.Command{
		Use:     "briefing",
		Short:   "Hiring briefing intake form",
		Long:    `Collects a hiring briefing through a web page or the terminal, fills company data from the CNPJ registry and hands the answers off as a WhatsApp message.`,
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "",
		"config file (default: ./briefing.yaml or ~/.config/briefing/config.yaml)")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")
	root.PersistentFlags().Bool("trace", false, "enable tracing of registry lookups")
	_ = a.v.BindPFlag("log.level", root.PersistentFlags().Lookup("log-level"))
	_ = a.v.BindPFlag("tracing.enabled", root.PersistentFlags().Lookup("trace"))

	root.AddCommand(newServeCmd(a), newFillCmd(a), newComposeCmd(a))
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	config.SetDefaults(a.v.SetDefault)
	a.v.SetEnvPrefix("BRIEFING")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.SetConfigName("briefing")
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(filepath.Join(home, ".config", "briefing"))
		}
	}
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	if err := a.v.Unmarshal(&a.cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(a.cfg.Log.Level)
	if err != nil {
		return err
	}
	a.logger = logger

	provider, err := tracing.NewProvider(tracing.Config{
		Enabled:     a.cfg.Tracing.Enabled,
		Exporter:    a.cfg.Tracing.Exporter,
		ServiceName: a.cfg.Tracing.ServiceName,
		Writer:      cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	a.tracer = provider

	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug("config loaded", zap.String("file", used))
	}
	return nil
}

func (a *app) close() error {
	var errs []error
	if a.tracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		errs = append(errs, a.tracer.Shutdown(ctx))
	}
	if a.logger != nil {
		// Sync on a terminal stderr reports EINVAL on some platforms.
		_ = a.logger.Sync()
	}
	return errors.Join(errs...)
}

func (a *app) newLooker() *registry.Client {
	opts := append(a.cfg.RegistryOptions(),
		registry.WithLogger(a.logger.Named("registry")),
	)
	if a.tracer != nil && a.tracer.Enabled() {
		opts = append(opts, registry.WithTracer(a.tracer.Tracer()))
	}
	return registry.New(opts...)
}

func (a *app) newComposer() *composer.Composer {
	return composer.New(a.cfg.ComposerOptions()...)
}
