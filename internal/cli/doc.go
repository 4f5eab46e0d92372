// Package cli реализует инструмент командной строки WorkerStore.
//
// # Обзор
//
// CLI работает с хранилищем сотрудников напрямую через repo.WorkerRepo
// и после каждого успешного изменения публикует событие в RabbitMQ
// (если брокер настроен).
//
// # Ключевые компоненты
//
// ## Deps
//
// Зависимости команд: Store (ошибки), LegacyStore (флаги false/-1/null),
// EventPublisher и логгер. Создаются лениво через DepsFunc после разбора
// PersistentFlags, поэтому --help не требует БД.
//
//	deps, err := cli.Connect(ctx, cfg, logger, prometheus.DefaultRegisterer)
//	defer deps.Close()
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON (json.Encoder) — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success) — в stderr.
// Это позволяет использовать pipe: workerstore worker list --json | jq .
//
// ## Commands
//
//   - migrate
//   - worker: list, show, add, update, delete, purge, delete-by
//   - lookup: color, status, worker
//
// Каждая группа создаётся через фабричную функцию (NewWorkerCmd и т.д.),
// принимающую depsFn и outputFn.
package cli
