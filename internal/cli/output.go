package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/shaiso/WorkerStore/internal/domain"
)

// Output управляет форматированием вывода CLI.
type Output struct {
	jsonMode bool
	w        io.Writer // stdout для данных
	errW     io.Writer // stderr для сообщений
}

// NewOutput создаёт Output. Если jsonMode=true, данные выводятся в JSON.
func NewOutput(jsonMode bool) *Output {
	return NewOutputTo(jsonMode, os.Stdout, os.Stderr)
}

// NewOutputTo создаёт Output с заданными потоками данных и сообщений.
func NewOutputTo(jsonMode bool, w, errW io.Writer) *Output {
	return &Output{
		jsonMode: jsonMode,
		w:        w,
		errW:     errW,
	}
}

// Print выводит данные: таблицу или JSON в зависимости от режима.
func (o *Output) Print(headers []string, rows [][]string, jsonData any) {
	if o.jsonMode {
		o.JSON(jsonData)
		return
	}
	o.Table(headers, rows)
}

// Table выводит данные в виде таблицы через tabwriter.
func (o *Output) Table(headers []string, rows [][]string) {
	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	dashes := make([]string, len(headers))
	for i, h := range headers {
		dashes[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(tw, strings.Join(dashes, "\t"))

	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	_ = tw.Flush()
}

// JSON выводит данные в формате JSON с отступами.
func (o *Output) JSON(v any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// Success выводит сообщение об успехе в stderr.
func (o *Output) Success(msg string) {
	fmt.Fprintln(o.errW, msg)
}

// --- Workers ---

var workerHeaders = []string{
	"ID", "NAME", "USER", "SALARY", "STATUS", "START", "END", "DAYS", "X", "Y", "HEIGHT", "WEIGHT", "COLOR",
}

// Workers выводит сотрудников, упорядоченных по ID.
func (o *Output) Workers(workers []*domain.Worker) {
	rows := make([][]string, len(workers))
	for i, w := range workers {
		rows[i] = workerCells(w)
	}
	o.Print(workerHeaders, rows, workers)
}

func workerCells(w *domain.Worker) []string {
	return []string{
		strconv.FormatInt(w.ID, 10),
		w.Name,
		strconv.FormatInt(w.UserID, 10),
		strconv.Itoa(w.Salary),
		w.Status.String(),
		w.StartDate.Format(domain.DateLayout),
		w.EndDate.Format(domain.DateLayout),
		strconv.Itoa(w.Tenure()),
		strconv.FormatFloat(float64(w.Coordinates.X), 'g', -1, 32),
		strconv.Itoa(w.Coordinates.Y),
		strconv.FormatFloat(float64(w.Person.Height), 'g', -1, 32),
		strconv.Itoa(w.Person.Weight),
		w.Person.HairColor.String(),
	}
}

// --- Results ---

// Rows выводит число затронутых сотрудников.
func (o *Output) Rows(n int64) {
	o.Print([]string{"ROWS"}, [][]string{{strconv.FormatInt(n, 10)}}, map[string]int64{"rows": n})
}

// ID выводит найденный идентификатор.
func (o *Output) ID(id int64) {
	o.Print([]string{"ID"}, [][]string{{strconv.FormatInt(id, 10)}}, map[string]int64{"id": id})
}

// Flag выводит результат операции в режиме --legacy.
func (o *Output) Flag(ok bool) {
	o.Print([]string{"RESULT"}, [][]string{{strconv.FormatBool(ok)}}, map[string]bool{"result": ok})
}

// NullableID выводит id или null в режиме --legacy.
func (o *Output) NullableID(id *int64) {
	cell := "null"
	if id != nil {
		cell = strconv.FormatInt(*id, 10)
	}
	o.Print([]string{"ID"}, [][]string{{cell}}, map[string]*int64{"id": id})
}
