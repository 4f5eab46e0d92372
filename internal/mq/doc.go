// Package mq предоставляет инфраструктуру для работы с RabbitMQ.
//
// Структура:
//   - connection.go — соединение с одним каналом, Redial после обрыва
//   - topology.go   — объявление exchange, очереди аудита и привязки
//   - publisher.go  — публикация событий об изменениях сотрудников
//   - consumer.go   — чтение очереди аудита с подтверждением и метриками исходов
//
// Типы сообщений:
//   - worker.inserted — сотрудник добавлен
//   - worker.updated  — сотрудник заменён новой версией
//   - worker.deleted  — сотрудники удалены (по id, владельцу, зарплате или дате)
//
// Exchanges:
//   - workerstore.workers (topic) — все события сотрудников
//
// Queues:
//   - workers.audit [routing: worker.#] — журнал изменений
package mq
