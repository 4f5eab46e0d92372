package domain

import "errors"

// Ошибки разбора справочных значений.
var (
	// ErrUnknownColor — строка не соответствует ни одному цвету.
	ErrUnknownColor = errors.New("unknown color")

	// ErrUnknownStatus — строка не соответствует ни одному статусу.
	ErrUnknownStatus = errors.New("unknown status")
)
