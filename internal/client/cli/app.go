package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/todoapi/internal/client/client"
	"github.com/dmitrijs2005/todoapi/internal/client/config"
	"github.com/dmitrijs2005/todoapi/internal/client/models"
	"github.com/dmitrijs2005/todoapi/internal/client/session"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// pingTimeout bounds one reachability probe.
const pingTimeout = 3 * time.Second

var (
	errNotLoggedIn    = errors.New("not logged in")
	errBadCredentials = errors.New("invalid credentials")
)

// sessionStore persists the login between runs; session.FileStore in
// production.
type sessionStore interface {
	Load() (*session.Session, error)
	Save(s *session.Session) error
	Clear() error
}

type App struct {
	config   *config.Config
	api      client.Client
	sessions sessionStore
	reader   *bufio.Reader
	out      io.Writer

	email    string
	lastList []models.Todo

	modeMu sync.RWMutex
	mode   Mode
}

// NewApp builds the API client and restores a saved login, if any.
func NewApp(c *config.Config) (*App, error) {
	api, err := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)
	if err != nil {
		return nil, err
	}
	return newApp(c, api, session.NewFileStore(c.SessionFile), os.Stdin, os.Stdout)
}

func newApp(c *config.Config, api client.Client, store sessionStore, in io.Reader, out io.Writer) (*App, error) {
	a := &App{
		config:   c,
		api:      api,
		sessions: store,
		reader:   bufio.NewReader(in),
		out:      out,
	}

	saved, err := store.Load()
	if err != nil {
		return nil, err
	}
	if saved != nil {
		api.SetToken(saved.Token)
		a.email = saved.Email
	}
	return a, nil
}

// Run starts the connectivity watcher and the REPL, blocking until the user
// exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "Todo CLI (type 'help' for commands)")

	if a.config.OnlineCheckInterval > 0 {
		a.checkOnline(ctx)
		go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.api.Token() != ""
}

func (a *App) getStatus() string {
	s := a.email
	if m := a.getMode(); m != "" {
		if s != "" {
			s += " "
		}
		s += string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) getMode() Mode {
	a.modeMu.RLock()
	defer a.modeMu.RUnlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != "" && a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := a.api.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// StartOnlineStatusWatcher probes the server every interval until ctx is
// done and keeps the prompt's mode current.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// forget drops the local login after the server refused the token.
func (a *App) forget() {
	a.api.SetToken("")
	a.email = ""
	a.lastList = nil
	if err := a.sessions.Clear(); err != nil {
		log.Printf("clear session: %v", err)
	}
}

// call runs an authenticated API call and drops the local login when the
// server no longer accepts the token.
func (a *App) call(fn func() error) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	err := fn()
	if errors.Is(err, client.ErrUnauthorized) {
		a.forget()
	}
	return err
}
