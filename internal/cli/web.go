package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"taskboard/internal/tui"
	"taskboard/internal/web"
)

const webShutdownTimeout = 5 * time.Second

func newWebCmd(app *App) *cobra.Command {
	var addr string
	var readOnly bool
	var withTUI bool

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the board over HTTP (HTML, JSON API, live updates)",
		Long: strings.TrimSpace(`
Serve the session's board from a local HTTP server.

  /            board, list and stats (live via server-sent events)
  /api/...     JSON API: tasks, board, calendar, stats, roster
  /ws          websocket feed of task changes

With --tui the terminal UI runs against the same session, so changes made in
either show up in the other. With --save the session is written back to
--seed on shutdown.
`),
		Example: strings.TrimSpace(`
taskboard web --addr 127.0.0.1:3333
taskboard --seed board.json --save web --tui
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				return writeErr(cmd, errors.New("web: missing --addr"))
			}

			log := app.log
			if withTUI {
				// The TUI owns the terminal.
				log = zerolog.Nop()
			}

			st, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			srv, err := web.NewServer(web.ServerConfig{Addr: listenAddr, Store: st, Log: log, ReadOnly: readOnly})
			if err != nil {
				return writeErr(cmd, err)
			}
			defer srv.Close()

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}
			url := "http://" + ln.Addr().String() + "/"

			if !withTUI {
				_ = writeOut(cmd, app, envelope(map[string]any{
					"addr":      ln.Addr().String(),
					"url":       url,
					"session":   st.SessionID(),
					"readOnly":  readOnly,
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				}, nil))
				fmt.Fprintf(cmd.ErrOrStderr(), "Task board running at %s\n", url)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			httpSrv := &http.Server{Handler: srv.Handler(), ReadHeaderTimeout: 10 * time.Second}
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				log.Info().Str("addr", ln.Addr().String()).Msg("http server listening")
				if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				log.Info().Msg("shutting down http server")
				// Open event streams end when the server detaches from the store.
				srv.Close()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), webShutdownTimeout)
				defer cancel()
				return httpSrv.Shutdown(shutdownCtx)
			})
			if withTUI {
				tuiCtx, cancelTUI := context.WithCancel(gctx)
				g.Go(func() error {
					defer stop()
					defer cancelTUI()
					return tui.Run(tuiCtx, st, tui.Options{Log: log})
				})
			}

			if err := g.Wait(); err != nil {
				return writeErr(cmd, err)
			}
			if err := saveSession(cmd, app, st); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", app.cfg.Addr, "Bind address (host:port or :port)")
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "Reject changes from the browser and API")
	cmd.Flags().BoolVar(&withTUI, "tui", false, "Also run the terminal UI on the same session")
	return cmd
}
