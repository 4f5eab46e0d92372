package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/shaiso/WorkerStore/internal/config"
	"github.com/shaiso/WorkerStore/internal/repo"
)

// NewMigrateCmd создаёт команду применения миграций схемы.
// Команде нужна только конфигурация: пул и брокер не создаются.
func NewMigrateCmd(configFn func() (*config.Config, zerolog.Logger, error), outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := configFn()
			if err != nil {
				return err
			}

			from, to, err := repo.Migrate(cmd.Context(), cfg.Database.URL, logger)
			if err != nil {
				return err
			}

			out := outputFn()
			out.Success(fmt.Sprintf("Schema version: %d -> %d", from, to))
			out.Print(
				[]string{"FROM", "TO"},
				[][]string{{fmt.Sprint(from), fmt.Sprint(to)}},
				map[string]int32{"from": from, "to": to},
			)
			return nil
		},
	}
}
