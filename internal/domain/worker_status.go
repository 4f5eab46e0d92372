package domain

import "fmt"

// Status — статус занятости сотрудника.
//
// Значение совпадает с именем в справочнике status.
type Status string

const (
	// StatusFired — уволен.
	StatusFired Status = "fired"

	// StatusHired — принят на работу.
	StatusHired Status = "hired"

	// StatusRecommendedForPromotion — рекомендован к повышению.
	StatusRecommendedForPromotion Status = "recommended for promotion"

	// StatusRegular — штатный сотрудник.
	StatusRegular Status = "regular"

	// StatusProbation — на испытательном сроке.
	StatusProbation Status = "probation"
)

// Statuses возвращает все статусы в порядке засева справочника.
func Statuses() []Status {
	return []Status{
		StatusFired,
		StatusHired,
		StatusRecommendedForPromotion,
		StatusRegular,
		StatusProbation,
	}
}

// String возвращает имя статуса.
func (s Status) String() string {
	return string(s)
}

// Valid возвращает true для известных статусов.
func (s Status) Valid() bool {
	switch s {
	case StatusFired, StatusHired, StatusRecommendedForPromotion, StatusRegular, StatusProbation:
		return true
	default:
		return false
	}
}

// IsEmployed возвращает true, если сотрудник не уволен.
func (s Status) IsEmployed() bool {
	return s.Valid() && s != StatusFired
}

// ParseStatus парсит строку в Status.
// Принимает как имя из справочника, так и форму с подчёркиваниями
// в любом регистре (HIRED, recommended_for_promotion).
func ParseStatus(s string) (Status, error) {
	key := foldName(s)
	for _, st := range Statuses() {
		if key == string(st) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}
