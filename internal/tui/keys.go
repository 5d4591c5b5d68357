package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up, Down, Left, Right key.Binding
	NextView, PrevView    key.Binding
	Board, List, Calendar key.Binding
	Stats                 key.Binding

	Add, Delete, Detail, Copy key.Binding
	MoveLeft, MoveRight       key.Binding
	MoveTo                    key.Binding
	ReorderUp, ReorderDown    key.Binding
	Refresh                   key.Binding

	Search, Status, Priority, Assignee key.Binding
	Sort, Direction, Clear             key.Binding

	PrevMonth, NextMonth, Today key.Binding

	Help, Quit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		NextView: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		PrevView: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev view")),
		Board:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "board")),
		List:     key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "list")),
		Calendar: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "calendar")),
		Stats:    key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "stats")),

		Add:         key.NewBinding(key.WithKeys("a", "n"), key.WithHelp("a", "add task")),
		Delete:      key.NewBinding(key.WithKeys("D", "delete"), key.WithHelp("D", "delete")),
		Detail:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Copy:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy id")),
		MoveLeft:    key.NewBinding(key.WithKeys("H", "shift+left"), key.WithHelp("H", "move left")),
		MoveRight:   key.NewBinding(key.WithKeys("L", "shift+right"), key.WithHelp("L", "move right")),
		MoveTo:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move to…")),
		ReorderUp:   key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "reorder up")),
		ReorderDown: key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "reorder down")),
		Refresh:     key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset order")),

		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Status:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "status filter")),
		Priority:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "priority filter")),
		Assignee:  key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "assignee filter")),
		Sort:      key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "sort key")),
		Direction: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "asc/desc")),
		Clear:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear filters")),

		PrevMonth: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev month")),
		NextMonth: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next month")),
		Today:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),

		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// contextKeys narrows the help footer to the bindings of the current view.
type contextKeys struct {
	km   keyMap
	view viewMode
}

func (c contextKeys) ShortHelp() []key.Binding {
	k := c.km
	switch c.view {
	case viewBoard:
		return []key.Binding{k.Add, k.MoveLeft, k.MoveRight, k.MoveTo, k.Detail, k.NextView, k.Help, k.Quit}
	case viewList:
		return []key.Binding{k.Search, k.Status, k.Priority, k.Sort, k.Direction, k.NextView, k.Help, k.Quit}
	case viewCalendar:
		return []key.Binding{k.PrevMonth, k.NextMonth, k.Today, k.Add, k.NextView, k.Help, k.Quit}
	}
	return []key.Binding{k.NextView, k.Help, k.Quit}
}

func (c contextKeys) FullHelp() [][]key.Binding {
	k := c.km
	common := []key.Binding{k.Up, k.Down, k.Left, k.Right, k.NextView, k.Board, k.List, k.Calendar, k.Stats, k.Help, k.Quit}
	switch c.view {
	case viewBoard:
		return [][]key.Binding{common, {k.Add, k.Delete, k.Detail, k.Copy, k.MoveLeft, k.MoveRight, k.MoveTo, k.ReorderUp, k.ReorderDown, k.Refresh}}
	case viewList:
		return [][]key.Binding{common, {k.Add, k.Delete, k.Detail, k.Copy, k.Search, k.Status, k.Priority, k.Assignee, k.Sort, k.Direction, k.Clear}}
	case viewCalendar:
		return [][]key.Binding{common, {k.Add, k.Detail, k.PrevMonth, k.NextMonth, k.Today}}
	}
	return [][]key.Binding{common}
}
