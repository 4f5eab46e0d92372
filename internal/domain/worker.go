package domain

import "time"

// Coordinates — местоположение сотрудника на плоскости.
//
// Строка coordinates принадлежит ровно одному сотруднику и создаётся
// заново при каждой вставке или обновлении Worker.
type Coordinates struct {
	// ID — идентификатор строки, назначается БД.
	ID int64 `json:"id,omitempty"`

	// X — координата по оси X (в БД real).
	X float32 `json:"x"`

	// Y — координата по оси Y.
	Y int `json:"y"`
}

// Person — физические характеристики сотрудника.
type Person struct {
	// ID — идентификатор строки, назначается БД.
	ID int64 `json:"id,omitempty"`

	// Height — рост (в БД real).
	Height float32 `json:"height"`

	// Weight — вес.
	Weight int `json:"weight"`

	// HairColor — цвет волос, ссылка на справочник color.
	HairColor Color `json:"hair_color"`
}

// User — владелец записей о сотрудниках.
// Слой хранения только читает пользователей, но никогда их не пишет.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
}

// Worker — запись о сотруднике.
//
// Каждый Worker принадлежит ровно одному пользователю (UserID).
// Все изменяющие операции, кроме поиска по имени, ограничены владельцем.
type Worker struct {
	// ID — worker_id, задаётся вызывающей стороной, а не БД.
	ID int64 `json:"id"`

	// Name — имя сотрудника.
	Name string `json:"name"`

	// Coordinates — местоположение.
	Coordinates Coordinates `json:"coordinates"`

	// Salary — зарплата.
	Salary int `json:"salary"`

	// StartDate — дата начала работы (календарная дата).
	StartDate time.Time `json:"start_date"`

	// EndDate — дата окончания работы (календарная дата).
	EndDate time.Time `json:"end_date"`

	// Status — статус занятости.
	Status Status `json:"status"`

	// Person — физические характеристики.
	Person Person `json:"person"`

	// UserID — владелец записи.
	UserID int64 `json:"user_id"`

	// User — данные владельца, заполняются только при чтении.
	User *User `json:"user,omitempty"`

	// CreationDate — время создания строки, назначается БД.
	CreationDate time.Time `json:"creation_date,omitempty"`
}

// Tenure возвращает продолжительность работы в днях.
// Для EndDate раньше StartDate возвращает 0.
func (w *Worker) Tenure() int {
	start := CalendarDate(w.StartDate, nil)
	end := CalendarDate(w.EndDate, nil)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours() / 24)
}
