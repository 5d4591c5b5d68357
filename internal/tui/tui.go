package tui

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"taskboard/internal/store"
)

type Options struct {
	Log    zerolog.Logger
	Input  io.Reader
	Output io.Writer
	// NoAltScreen keeps the UI inline (tests, dumb terminals).
	NoAltScreen bool
}

// Run drives the interactive board until the user quits or ctx ends.
// Store changes made elsewhere (the web server shares the same store) are
// pushed into the program as they happen.
func Run(ctx context.Context, st *store.Store, opts Options) error {
	applyColorProfilePreference()
	applyThemePreference()

	m := newAppModel(st)
	popts := []tea.ProgramOption{tea.WithContext(ctx)}
	if !opts.NoAltScreen {
		popts = append(popts, tea.WithAltScreen())
	}
	if opts.Input != nil {
		popts = append(popts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		popts = append(popts, tea.WithOutput(opts.Output))
	}
	p := tea.NewProgram(m, popts...)

	// Listeners run inside the mutating call, which may be our own Update;
	// Send would block on it, so hand off to a goroutine.
	cancel := st.Subscribe(func(c store.Change) {
		go p.Send(storeChangedMsg{version: c.Version, tasks: c.Snapshot})
	})
	defer cancel()

	opts.Log.Debug().Str("session", st.SessionID()).Msg("tui started")
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
