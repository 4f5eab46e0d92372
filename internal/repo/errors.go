package repo

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Общие ошибки репозиториев.
var (
	// ErrNotFound — запись не найдена в БД.
	ErrNotFound = errors.New("not found")

	// ErrConstraintViolation — нарушено ограничение целостности (SQLSTATE класса 23).
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrAlreadyExists — запись уже существует (конфликт уникальности).
	// Является частным случаем ErrConstraintViolation.
	ErrAlreadyExists = fmt.Errorf("already exists: %w", ErrConstraintViolation)

	// ErrConnection — БД недоступна или соединение потеряно.
	ErrConnection = errors.New("connection error")

	// ErrConversion — значение нельзя передать в БД или прочитать из неё.
	ErrConversion = errors.New("conversion failed")

	// ErrQueryFailed — прочие ошибки выполнения запроса.
	ErrQueryFailed = errors.New("query failed")
)

// Outcome — категория результата операции.
// Используется как label метрик и в логах FlaggedRepo.
type Outcome string

const (
	OutcomeSuccess             Outcome = "success"
	OutcomeNotFound            Outcome = "not_found"
	OutcomeConstraintViolation Outcome = "constraint_violation"
	OutcomeConnectionError     Outcome = "connection_error"
	OutcomeConversionFailed    Outcome = "conversion_failed"
	OutcomeQueryFailed         Outcome = "query_failed"
)

// Classify относит ошибку к одной из категорий Outcome.
// nil — OutcomeSuccess.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, ErrConstraintViolation):
		return OutcomeConstraintViolation
	case errors.Is(err, ErrConnection):
		return OutcomeConnectionError
	case errors.Is(err, ErrConversion):
		return OutcomeConversionFailed
	default:
		return OutcomeQueryFailed
	}
}

// storeError оборачивает ошибку pgx контекстом операции и сентинелом.
//
//	insert worker: already exists: constraint violation: ERROR: duplicate key ...
func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	sentinel := sentinelFor(err)
	if errors.Is(err, sentinel) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, sentinel, err)
}

// sentinelFor подбирает сентинел по ошибке драйвера.
func sentinelFor(err error) error {
	for _, known := range []error{ErrNotFound, ErrAlreadyExists, ErrConstraintViolation, ErrConnection, ErrConversion, ErrQueryFailed} {
		if errors.Is(err, known) {
			return known
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return sentinelForCode(pgErr.Code)
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return ErrConnection
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrQueryFailed
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return ErrConnection
	}

	return ErrQueryFailed
}

// sentinelForCode классифицирует SQLSTATE.
func sentinelForCode(code string) error {
	switch {
	case code == uniqueViolation:
		return ErrAlreadyExists
	case strings.HasPrefix(code, "23"):
		return ErrConstraintViolation
	case strings.HasPrefix(code, "08"), code == adminShutdown, code == cannotConnectNow:
		return ErrConnection
	case strings.HasPrefix(code, "22"):
		return ErrConversion
	default:
		return ErrQueryFailed
	}
}

// Коды SQLSTATE, которые не определяются по классу.
const (
	uniqueViolation  = "23505"
	adminShutdown    = "57P01"
	cannotConnectNow = "57P03"
)
