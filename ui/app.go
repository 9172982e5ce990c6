// Package ui provides the Fyne-based desktop front-end for the admin console.
//
// Widget callbacks never talk to the server themselves. They post events to a
// console.Loop, whose single goroutine runs the console controllers; those
// draw back through fyne.Do.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/LunovVladyslav/ws-tutorial/pkg/api"
	"github.com/LunovVladyslav/ws-tutorial/pkg/config"
	"github.com/LunovVladyslav/ws-tutorial/pkg/console"
	"github.com/LunovVladyslav/ws-tutorial/pkg/model"
	"github.com/LunovVladyslav/ws-tutorial/pkg/session"
	"github.com/LunovVladyslav/ws-tutorial/pkg/storage"
)

// AppID identifies the application to fyne (preferences, storage root).
const AppID = "io.wstutorial.admin"

const (
	loopQueue       = 32
	metricsInterval = 10 * time.Minute
)

// App is the main GUI application.
type App struct {
	fyneApp fyne.App
	window  fyne.Window
	client  *api.Client
	store   storage.Storage
	loop    *console.Loop
	ctx     context.Context
	do      func(func())

	sessions session.Store
	prompt   *Prompter
	login    *loginScreen
	loginCtl *console.Login
	screen   *consoleScreen
	addUser  *addUserModal
	banUser  *banModal

	// Owned by the loop goroutine.
	console *console.Console
}

// NewApp creates the application. The session lives in the app preferences
// when cfg.Storage is "preferences", otherwise in the configured storage.
func NewApp(cfg *config.Config, client *api.Client) (*App, error) {
	fyneApp := app.NewWithID(AppID)

	var st storage.Storage
	if cfg.Storage == storage.BackendPreferences {
		st = NewPreferences(fyneApp.Preferences())
	} else {
		var err error
		if st, err = cfg.OpenStorage(); err != nil {
			return nil, fmt.Errorf("ui: open session storage: %w", err)
		}
	}
	return newApp(fyneApp, client, st, fyne.Do), nil
}

func newApp(fyneApp fyne.App, client *api.Client, st storage.Storage, do func(func())) *App {
	a := &App{
		fyneApp:  fyneApp,
		client:   client,
		store:    st,
		loop:     console.NewLoop(loopQueue),
		ctx:      context.Background(),
		do:       do,
		sessions: session.NewStore(st),
	}
	a.window = fyneApp.NewWindow("Admin Console")
	a.window.Resize(fyne.NewSize(960, 640))
	a.window.SetMaster()

	a.prompt = &Prompter{window: a.window, do: do}
	a.addUser = newAddUserModal(a.window, do, a.createUser, a.closeModal(console.ModalAddUser), a.backdropTapped)
	a.banUser = newBanModal(a.window, do, a.submitBan, a.closeModal(console.ModalBanUser), a.backdropTapped)
	a.login = newLoginScreen(do, a.submitLogin)
	a.loginCtl = console.NewLogin(client, a.sessions, a.login, a)
	a.screen = newConsoleScreen(do, a.dispatch, a.addUser, a.banUser)
	a.window.SetContent(a.login.content)
	return a
}

// Run starts the GUI application (blocks until the window closes or parent
// is cancelled).
func (a *App) Run(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	a.start(ctx)
	a.client.Metrics().StartPeriodicLog(metricsInterval, ctx.Done())
	go func() {
		<-ctx.Done()
		if parent.Err() != nil {
			a.do(a.fyneApp.Quit)
		}
	}()
	a.window.SetCloseIntercept(func() {
		cancel()
		a.client.Metrics().LogSummary()
		if err := a.store.Close(); err != nil {
			slog.Error("close session storage", "err", err)
		}
		a.fyneApp.Quit()
	})
	a.window.ShowAndRun()
	cancel()
}

// start runs the console loop and skips the login form when an admin
// session is already stored.
func (a *App) start(ctx context.Context) {
	a.ctx = ctx
	go a.loop.Run(ctx)
	a.post(func(context.Context) {
		if !a.loginCtl.Resume() {
			slog.Debug("no stored admin session")
		}
	})
}

// post queues work for the console loop without blocking the UI thread and
// reports whether it was queued.
func (a *App) post(ev console.Event) bool {
	if err := a.loop.TryPost(ev); err != nil {
		if errors.Is(err, console.ErrLoopBusy) {
			slog.Warn("console busy, input dropped")
		} else {
			slog.Debug("post event", "err", err)
		}
		return false
	}
	return true
}

func (a *App) dispatch(act console.Action) bool {
	return a.post(func(ctx context.Context) {
		if a.console == nil {
			return
		}
		if err := a.console.Dispatch(ctx, act); err != nil {
			slog.Warn("action failed", "action", act.Name, "id", act.ID, "err", err)
		}
	})
}

func (a *App) submitLogin(username, password string) {
	a.post(func(ctx context.Context) {
		err := a.loginCtl.Submit(ctx, username, password)
		if errors.Is(err, console.ErrMissingCredentials) {
			slog.Debug("login ignored: blank field")
		}
	})
}

func (a *App) createUser(req model.NewUser) {
	a.post(func(ctx context.Context) {
		if a.console != nil {
			a.console.Users.Create(ctx, req)
		}
	})
}

func (a *App) submitBan(hours string) {
	a.post(func(ctx context.Context) {
		if a.console != nil {
			a.console.Users.SubmitBan(ctx, hours)
		}
	})
}

func (a *App) closeModal(name string) func() {
	return func() {
		a.post(func(context.Context) {
			if a.console != nil {
				a.console.Modals.CloseAction(name)()
			}
		})
	}
}

// backdropTapped closes the open forms after a tap outside them.
func (a *App) backdropTapped() {
	a.post(func(context.Context) {
		if a.console != nil {
			a.console.Modals.Backdrop()
		}
	})
}

// ToLogin shows the login screen. Called on the loop goroutine.
func (a *App) ToLogin() {
	if a.console != nil {
		a.console.Modals.Backdrop()
	}
	a.console = nil
	a.do(func() {
		a.login.reset()
		a.window.SetContent(a.login.content)
	})
}

// ToConsole opens the console for the stored session. Called on the loop
// goroutine, right after a login or a resumed session.
func (a *App) ToConsole() {
	c, err := console.New(console.Config{
		Store:    a.sessions,
		Client:   a.client,
		View:     a.screen,
		Prompter: a.prompt,
		Router:   a,
		Modals: map[string]console.Modal{
			console.ModalAddUser: a.addUser,
			console.ModalBanUser: a.banUser,
		},
	})
	if err != nil {
		slog.Warn("console refused", "err", err)
		return
	}
	a.console = c
	a.do(func() { a.window.SetContent(a.screen.content) })
	c.Start(a.ctx)
}

var _ console.Router = (*App)(nil)
