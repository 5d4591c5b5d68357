package view

import (
	"time"

	"taskboard/internal/model"
)

type Day struct {
	Date  model.Date   `json:"date"`
	Tasks []model.Task `json:"tasks"`
}

// Week is seven slots, Sunday first. Slots outside the month are nil.
type Week [7]*Day

type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Weeks []Week     `json:"weeks"`
}

// MonthGrid lays out a month as calendar weeks starting on Sunday.
func MonthGrid(year int, month time.Month, tasks []model.Task) Month {
	first := model.NewDate(year, month, 1)
	daysIn := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()

	m := Month{Year: year, Month: month}
	var w Week
	slot := int(first.Weekday())
	for day := 1; day <= daysIn; day++ {
		d := model.NewDate(year, month, day)
		w[slot] = &Day{Date: d, Tasks: OnDate(tasks, d)}
		slot++
		if slot == 7 {
			m.Weeks = append(m.Weeks, w)
			w = Week{}
			slot = 0
		}
	}
	if slot > 0 {
		m.Weeks = append(m.Weeks, w)
	}
	return m
}

// WeekOf returns the Sunday-first week containing d.
func WeekOf(d model.Date, tasks []model.Task) []Day {
	start := d.AddDays(-int(d.Weekday()))
	out := make([]Day, 0, 7)
	for i := 0; i < 7; i++ {
		day := start.AddDays(i)
		out = append(out, Day{Date: day, Tasks: OnDate(tasks, day)})
	}
	return out
}
