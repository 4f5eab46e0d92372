package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Color — цвет волос сотрудника.
//
// Значение совпадает с каноническим именем в справочнике color.
type Color string

const (
	// ColorBlack — чёрный.
	ColorBlack Color = "black"

	// ColorWhite — белый.
	ColorWhite Color = "white"

	// ColorBrown — коричневый.
	ColorBrown Color = "brown"
)

// Colors возвращает все цвета в порядке засева справочника.
func Colors() []Color {
	return []Color{ColorBlack, ColorWhite, ColorBrown}
}

// String возвращает каноническое имя цвета.
func (c Color) String() string {
	return string(c)
}

// Valid возвращает true для известных цветов.
func (c Color) Valid() bool {
	switch c {
	case ColorBlack, ColorWhite, ColorBrown:
		return true
	default:
		return false
	}
}

// ParseColor парсит строку в Color без учёта регистра.
func ParseColor(s string) (Color, error) {
	key := foldName(s)
	for _, c := range Colors() {
		if key == string(c) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownColor, s)
}

// foldName приводит имя к форме для сравнения без учёта регистра.
// Подчёркивания считаются пробелами: RECOMMENDED_FOR_PROMOTION и
// "recommended for promotion" дают одно и то же.
func foldName(s string) string {
	// cases.Caser хранит состояние, поэтому создаётся на каждый вызов.
	folded := cases.Fold().String(strings.TrimSpace(s))
	return strings.ReplaceAll(folded, "_", " ")
}
