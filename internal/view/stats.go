package view

import (
	"math"

	"taskboard/internal/model"
)

type Count struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type Workload struct {
	Assignee   string `json:"assignee"`
	Name       string `json:"name"`
	Assigned   int    `json:"assigned"`
	Completed  int    `json:"completed"`
	Efficiency int    `json:"efficiency"`
}

type Summary struct {
	Total          int        `json:"total"`
	Completed      int        `json:"completed"`
	InProgress     int        `json:"inProgress"`
	Overdue        int        `json:"overdue"`
	CompletionRate int        `json:"completionRate"`
	ByPriority     []Count    `json:"byPriority"`
	ByStatus       []Count    `json:"byStatus"`
	Team           []Workload `json:"team"`
}

// Summarize computes board metrics as of today.
// Priority and status counts keep zero entries so charts have a stable shape.
func Summarize(tasks []model.Task, today model.Date, roster model.Roster) Summary {
	s := Summary{Total: len(tasks)}

	byPriority := map[model.Priority]int{}
	byStatus := map[model.Status]int{}
	team := map[string]*Workload{}
	var order []string

	for _, t := range tasks {
		byPriority[t.Priority]++
		byStatus[t.Status]++
		switch t.Status {
		case model.StatusDone:
			s.Completed++
		case model.StatusInProgress:
			s.InProgress++
		}
		if IsOverdue(t, today) {
			s.Overdue++
		}
		if t.Assignee == "" {
			continue
		}
		w, ok := team[t.Assignee]
		if !ok {
			w = &Workload{Assignee: t.Assignee, Name: roster.Label(t.Assignee)}
			team[t.Assignee] = w
			order = append(order, t.Assignee)
		}
		w.Assigned++
		if t.Status == model.StatusDone {
			w.Completed++
		}
	}

	s.CompletionRate = percent(s.Completed, s.Total)
	for _, p := range model.Priorities() {
		s.ByPriority = append(s.ByPriority, Count{Name: string(p), Value: byPriority[p]})
	}
	for _, st := range model.Statuses() {
		s.ByStatus = append(s.ByStatus, Count{Name: st.Label(), Value: byStatus[st]})
	}
	s.Team = []Workload{}
	for _, a := range order {
		w := team[a]
		w.Efficiency = percent(w.Completed, w.Assigned)
		s.Team = append(s.Team, *w)
	}
	return s
}

func percent(n, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(n) * 100 / float64(total)))
}
