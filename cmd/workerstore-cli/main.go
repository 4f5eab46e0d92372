// WorkerStore CLI — инструмент командной строки для управления
// сотрудниками в PostgreSQL.
//
// Использование:
//
//	workerstore [--json] [--legacy] [--env-file PATH] <command> <subcommand> [flags]
//
// Команды:
//
//	migrate  Применить миграции схемы
//	worker   Управление сотрудниками
//	lookup   Поиск идентификаторов по имени
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/shaiso/WorkerStore/internal/cli"
	"github.com/shaiso/WorkerStore/internal/config"
	"github.com/shaiso/WorkerStore/internal/telemetry"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var envFile string
	var jsonOutput bool
	var legacy bool

	rootCmd := &cobra.Command{
		Use:           "workerstore",
		Short:         "WorkerStore CLI — worker records over PostgreSQL",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to .env file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&legacy, "legacy", false, "Report true/false, -1 and null instead of errors")

	configFn := sync.OnceValues(func() (*config.Config, error) {
		return config.Load(envFile)
	})
	loggerFn := func() (*config.Config, zerolog.Logger, error) {
		cfg, err := configFn()
		if err != nil {
			return nil, zerolog.Nop(), err
		}
		return cfg, telemetry.SetupLogger(cfg.Log), nil
	}

	var deps *cli.Deps
	depsFn := func(ctx context.Context) (*cli.Deps, error) {
		if deps != nil {
			return deps, nil
		}
		cfg, logger, err := loggerFn()
		if err != nil {
			return nil, err
		}
		d, err := cli.Connect(ctx, cfg, logger, prometheus.DefaultRegisterer)
		if err != nil {
			return nil, err
		}
		d.LegacyMode = legacy
		deps = d
		return deps, nil
	}
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewMigrateCmd(loggerFn, outputFn),
		cli.NewWorkerCmd(depsFn, outputFn),
		cli.NewLookupCmd(depsFn, outputFn),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	if deps != nil {
		deps.Close()
	}
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
