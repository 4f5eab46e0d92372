package domain

import "time"

// DateLayout — формат календарной даты для ввода и вывода.
const DateLayout = "2006-01-02"

// ReferenceZone — зона, в которой сравниваются даты начала работы.
// Дата начала хранится как календарная дата по Гринвичу, поэтому
// поиск по ней не зависит от зоны вызывающей стороны.
var ReferenceZone = time.UTC

// CalendarDate возвращает полночь UTC того календарного дня, которым
// t является в зоне loc. При loc == nil берётся собственная зона t.
func CalendarDate(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate парсит дату в формате YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
