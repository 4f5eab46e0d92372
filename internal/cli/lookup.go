package cli

import (
	"github.com/spf13/cobra"

	"github.com/shaiso/WorkerStore/internal/domain"
)

// NewLookupCmd создаёт группу команд поиска идентификаторов.
func NewLookupCmd(depsFn DepsFunc, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Resolve names to IDs",
	}

	cmd.AddCommand(
		newLookupColorCmd(depsFn, outputFn),
		newLookupStatusCmd(depsFn, outputFn),
		newLookupWorkerCmd(depsFn, outputFn),
	)

	return cmd
}

func newLookupColorCmd(depsFn DepsFunc, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "color NAME",
		Short: "Show the ID of a hair color",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := depsFn(cmd.Context())
			if err != nil {
				return err
			}
			ctx := deps.Context(cmd.Context())
			color := domain.Color(args[0])

			if deps.LegacyMode {
				outputFn().NullableID(deps.Legacy.ColorID(ctx, color))
				return nil
			}

			id, err := deps.Store.ColorID(ctx, color)
			if err != nil {
				return err
			}
			outputFn().ID(id)
			return nil
		},
	}
}

func newLookupStatusCmd(depsFn DepsFunc, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "status NAME",
		Short: "Show the ID of a worker status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := depsFn(cmd.Context())
			if err != nil {
				return err
			}
			ctx := deps.Context(cmd.Context())

			// RECOMMENDED_FOR_PROMOTION приводится к имени из справочника.
			status := domain.Status(args[0])
			if parsed, err := domain.ParseStatus(args[0]); err == nil {
				status = parsed
			}

			if deps.LegacyMode {
				outputFn().NullableID(deps.Legacy.StatusID(ctx, status))
				return nil
			}

			id, err := deps.Store.StatusID(ctx, status)
			if err != nil {
				return err
			}
			outputFn().ID(id)
			return nil
		},
	}
}

func newLookupWorkerCmd(depsFn DepsFunc, outputFn func() *Output) *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "worker NAME",
		Short: "Show the ID of a worker by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := depsFn(cmd.Context())
			if err != nil {
				return err
			}
			ctx := deps.Context(cmd.Context())

			if deps.LegacyMode {
				outputFn().NullableID(deps.Legacy.WorkerID(ctx, args[0], userID))
				return nil
			}

			id, err := deps.Store.WorkerID(ctx, args[0], userID)
			if err != nil {
				return err
			}
			outputFn().ID(id)
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "Owner user ID (required)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
