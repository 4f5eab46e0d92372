package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shaiso/WorkerStore/internal/domain"
	"github.com/shaiso/WorkerStore/internal/mq"
	"github.com/shaiso/WorkerStore/internal/telemetry"
)

// NewWorkerCmd создаёт группу команд для управления сотрудниками.
func NewWorkerCmd(depsFn DepsFunc, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Manage workers",
	}

	cmd.AddCommand(
		newWorkerListCmd(depsFn, outputFn),
		newWorkerShowCmd(depsFn, outputFn),
		newWorkerAddCmd(depsFn, outputFn),
		newWorkerUpdateCmd(depsFn, outputFn),
		newWorkerDeleteCmd(depsFn, outputFn),
		newWorkerPurgeCmd(depsFn, outputFn),
		newWorkerDeleteByCmd(depsFn, outputFn),
	)

	return cmd
}

func newWorkerListCmd(depsFn DepsFunc, outputFn func() *Output) *cobra.Command {
	var userID int64
	var employedOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List workers of all users or of one user",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := depsFn(cmd.Context())
			if err != nil {
				return err
			}
			ctx := deps.Context(cmd.Context())
			out := outputFn()

			var set *domain.WorkerSet
			switch {
			case deps.LegacyMode:
				set = deps.Legacy.List(ctx)
			case cmd.Flags().Changed("user"):
				set, err = deps.Store.ListByUser(ctx, userID)
			default:
				set, err = deps.Store.List(ctx)
			}
			if err != nil {
				return err
			}

			if deps.LegacyMode && cmd.Flags().Changed("user") {
				set.Range(func(w *domain.Worker) bool {
					if w.UserID != userID {
						set.Delete(w.ID)
					}
					return true
				})
			}

			workers := set.Sorted()
			if employedOnly {
				workers = filterWorkers(workers, func(w *domain.Worker) bool { return w.Status.IsEmployed() })
			}
			out.Workers(workers)
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "Only workers owned by this user")
	cmd.Flags().BoolVar(&employedOnly, "employed", false, "Hide fired workers")

	return cmd
}

func newWorkerShowCmd(depsFn DepsFunc, outputFn func() *Output) *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show worker details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workerID, err := parseWorkerID(args[0])
			if err != nil {
				return err
			}

			deps, err := depsFn(cmd.Context())
			if err != nil {
				return err
			}
			ctx := deps.Context(cmd.Context())

			if deps.LegacyMode {
				// Отдельного чтения в legacy-режиме нет: берём из общего списка.
				var found []*domain.Worker
				if w, ok := deps.Legacy.List(ctx).Get(workerID); ok && w.UserID == userID {
					found = append(found, w)
				}
				outputFn().Workers(found)
				return nil
			}

			w, err := deps.Store.Get(ctx, workerID, userID)
			if err != nil {
				return err
			}

			outputFn().Workers([]*domain.Worker{w})
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "Owner user ID (required)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newWorkerAddCmd(depsFn DepsFunc, outputFn func() *Output) *cobra.Command {
	var in workerInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := in.worker()
			if err != nil {
				return err
			}

			deps, err := depsFn(cmd.Context())
			if err != nil {
				return err
			}
			ctx := deps.Context(cmd.Context())
			out := outputFn()

			if deps.LegacyMode {
				ok := deps.Legacy.Insert(ctx, w)
				if ok {
					deps.publish(ctx, mq.MessageTypeWorkerInserted, mq.WorkerEventPayload{WorkerID: w.ID, UserID: w.UserID})
				}
				out.Flag(ok)
				return nil
			}

			if err := deps.Store.Insert(ctx, w); err != nil {
				return err
			}
			deps.publish(ctx, mq.MessageTypeWorkerInserted, mq.WorkerEventPayload{WorkerID: w.ID, UserID: w.UserID})

			out.Success(fmt.Sprintf("Worker added: %d", w.ID))
			out.Workers([]*domain.Worker{w})
			return nil
		},
	}

	in.bind(cmd, true)

	return cmd
}

func newWorkerUpdateCmd(depsFn DepsFunc, outputFn func() *Output) *cobra.Command {
	var in workerInput

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Replace a worker with new values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workerID, err := parseWorkerID(args[0])
			if err != nil {
				return err
			}
			in.id = workerID

			w, err := in.worker()
			if err != nil {
				return err
			}

			deps, err := depsFn(cmd.Context())
			if err != nil {
				return err
			}
			ctx := deps.Context(cmd.Context())
			out := outputFn()

			if deps.LegacyMode {
				ok := deps.Legacy.Update(ctx, w)
				if ok {
					deps.publish(ctx, mq.MessageTypeWorkerUpdated, mq.WorkerEventPayload{WorkerID: w.ID, UserID: w.UserID})
				}
				out.Flag(ok)
				return nil
			}

			if err := deps.Store.Update(ctx, w); err != nil {
				return err
			}
			deps.publish(ctx, mq.MessageTypeWorkerUpdated, mq.WorkerEventPayload{WorkerID: w.ID, UserID: w.UserID})

			out.Success(fmt.Sprintf("Worker updated: %d", w.ID))
			out.Workers([]*domain.Worker{w})
			return nil
		},
	}

	in.bind(cmd, false)

	return cmd
}

func newWorkerDeleteCmd(depsFn DepsFunc, outputFn func() *Output) *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a worker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workerID, err := parseWorkerID(args[0])
			if err != nil {
				return err
			}

			return runDelete(cmd, depsFn, outputFn, deletion{
				filter:  "id=" + args[0],
				userID:  userID,
				payload: mq.WorkerEventPayload{WorkerID: workerID},
				strict: func(ctx context.Context, d *Deps) (int64, error) {
					return d.Store.DeleteByID(ctx, workerID, userID)
				},
				legacy: func(ctx context.Context, d *Deps) bool {
					return d.Legacy.DeleteByID(ctx, workerID, userID)
				},
			})
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "Owner user ID (required)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newWorkerPurgeCmd(depsFn DepsFunc, outputFn func() *Output) *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete all workers of a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd, depsFn, outputFn, deletion{
				filter: "user",
				userID: userID,
				strict: func(ctx context.Context, d *Deps) (int64, error) {
					return d.Store.DeleteByUser(ctx, userID)
				},
				legacy: func(ctx context.Context, d *Deps) bool {
					return d.Legacy.DeleteByUser(ctx, userID)
				},
			})
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "Owner user ID (required)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

// Условия delete-by.
const (
	deleteBySalaryMin = "salary-min"
	deleteBySalaryMax = "salary-max"
	deleteByStartDate = "start-date"
	deleteByEndDate   = "end-date"
)

func newWorkerDeleteByCmd(depsFn DepsFunc, outputFn func() *Output) *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:       "delete-by salary-min|salary-max|start-date|end-date VALUE",
		Short:     "Delete workers of a user matching a condition",
		Long:      "salary-min and salary-max are inclusive thresholds; dates use YYYY-MM-DD.",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{deleteBySalaryMin, deleteBySalaryMax, deleteByStartDate, deleteByEndDate},
		RunE: func(cmd *cobra.Command, args []string) error {
			del, err := deleteByCondition(args[0], args[1], userID)
			if err != nil {
				return err
			}
			return runDelete(cmd, depsFn, outputFn, del)
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "Owner user ID (required)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

// deleteByCondition собирает удаление по условию kind со значением value.
func deleteByCondition(kind, value string, userID int64) (deletion, error) {
	del := deletion{filter: kind + "=" + value, userID: userID}

	switch kind {
	case deleteBySalaryMin, deleteBySalaryMax:
		salary, err := strconv.Atoi(value)
		if err != nil {
			return deletion{}, fmt.Errorf("invalid salary: %s", value)
		}
		if kind == deleteBySalaryMin {
			del.strict = func(ctx context.Context, d *Deps) (int64, error) {
				return d.Store.DeleteBySalaryAtLeast(ctx, salary, userID)
			}
			del.legacy = func(ctx context.Context, d *Deps) bool {
				return d.Legacy.DeleteBySalaryAtLeast(ctx, salary, userID)
			}
		} else {
			del.strict = func(ctx context.Context, d *Deps) (int64, error) {
				return d.Store.DeleteBySalaryAtMost(ctx, salary, userID)
			}
			del.legacy = func(ctx context.Context, d *Deps) bool {
				return d.Legacy.DeleteBySalaryAtMost(ctx, salary, userID)
			}
		}

	case deleteByStartDate, deleteByEndDate:
		date, err := domain.ParseDate(value)
		if err != nil {
			return deletion{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
		}
		if kind == deleteByStartDate {
			del.strict = func(ctx context.Context, d *Deps) (int64, error) {
				return d.Store.DeleteByStartDate(ctx, date, userID)
			}
			del.legacy = func(ctx context.Context, d *Deps) bool {
				return d.Legacy.DeleteByStartDate(ctx, date, userID)
			}
		} else {
			del.strict = func(ctx context.Context, d *Deps) (int64, error) {
				return d.Store.DeleteByEndDate(ctx, date, userID)
			}
			del.legacy = func(ctx context.Context, d *Deps) bool {
				return d.Legacy.DeleteByEndDate(ctx, date, userID)
			}
		}

	default:
		return deletion{}, fmt.Errorf("unknown condition %q", kind)
	}

	return del, nil
}

// deletion — одно удаление в обоих режимах.
type deletion struct {
	filter  string
	userID  int64
	payload mq.WorkerEventPayload
	strict  func(ctx context.Context, d *Deps) (int64, error)
	legacy  func(ctx context.Context, d *Deps) bool
}

func runDelete(cmd *cobra.Command, depsFn DepsFunc, outputFn func() *Output, del deletion) error {
	deps, err := depsFn(cmd.Context())
	if err != nil {
		return err
	}
	ctx := telemetry.WithLogger(cmd.Context(), telemetry.WithUserID(deps.Logger, del.userID))
	out := outputFn()

	payload := del.payload
	payload.UserID = del.userID
	payload.Filter = del.filter

	if deps.LegacyMode {
		ok := del.legacy(ctx, deps)
		if ok {
			deps.publish(ctx, mq.MessageTypeWorkerDeleted, payload)
		}
		out.Flag(ok)
		return nil
	}

	n, err := del.strict(ctx, deps)
	if err != nil {
		return err
	}
	if n > 0 {
		payload.Rows = n
		deps.publish(ctx, mq.MessageTypeWorkerDeleted, payload)
	}

	out.Rows(n)
	return nil
}

// --- Input ---

// workerInput — флаги add и update.
type workerInput struct {
	id     int64
	name   string
	x      float32
	y      int
	salary int
	start  string
	end    string
	status string
	height float32
	weight int
	color  string
	userID int64
}

// bind регистрирует флаги. withID добавляет --id (для add).
func (in *workerInput) bind(cmd *cobra.Command, withID bool) {
	f := cmd.Flags()
	if withID {
		f.Int64Var(&in.id, "id", 0, "Worker ID (required)")
		_ = cmd.MarkFlagRequired("id")
	}
	f.StringVar(&in.name, "name", "", "Worker name (required)")
	f.Float32Var(&in.x, "x", 0, "X coordinate")
	f.IntVar(&in.y, "y", 0, "Y coordinate")
	f.IntVar(&in.salary, "salary", 0, "Salary")
	f.StringVar(&in.start, "start", "", "Start date, YYYY-MM-DD (required)")
	f.StringVar(&in.end, "end", "", "End date, YYYY-MM-DD (required)")
	f.StringVar(&in.status, "status", string(domain.StatusHired), "Status")
	f.Float32Var(&in.height, "height", 0, "Height")
	f.IntVar(&in.weight, "weight", 0, "Weight")
	f.StringVar(&in.color, "color", string(domain.ColorBlack), "Hair color")
	f.Int64Var(&in.userID, "user", 0, "Owner user ID (required)")

	for _, name := range []string{"name", "start", "end", "user"} {
		_ = cmd.MarkFlagRequired(name)
	}
}

// worker разбирает флаги в Worker.
func (in *workerInput) worker() (*domain.Worker, error) {
	status, err := domain.ParseStatus(in.status)
	if err != nil {
		return nil, err
	}
	color, err := domain.ParseColor(in.color)
	if err != nil {
		return nil, err
	}
	start, err := domain.ParseDate(in.start)
	if err != nil {
		return nil, fmt.Errorf("invalid --start %q, expected YYYY-MM-DD", in.start)
	}
	end, err := domain.ParseDate(in.end)
	if err != nil {
		return nil, fmt.Errorf("invalid --end %q, expected YYYY-MM-DD", in.end)
	}

	return &domain.Worker{
		ID:          in.id,
		Name:        in.name,
		Coordinates: domain.Coordinates{X: in.x, Y: in.y},
		Salary:      in.salary,
		StartDate:   start,
		EndDate:     end,
		Status:      status,
		Person:      domain.Person{Height: in.height, Weight: in.weight, HairColor: color},
		UserID:      in.userID,
	}, nil
}

func parseWorkerID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid worker ID: %s", s)
	}
	return id, nil
}

func filterWorkers(workers []*domain.Worker, keep func(w *domain.Worker) bool) []*domain.Worker {
	out := workers[:0]
	for _, w := range workers {
		if keep(w) {
			out = append(out, w)
		}
	}
	return out
}

