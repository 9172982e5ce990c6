package console

import (
	"context"

	"github.com/LunovVladyslav/ws-tutorial/pkg/model"
)

// Prompter shows modal messages to the operator.
type Prompter interface {
	Alert(msg string)
	// Confirm blocks until the operator answers.
	Confirm(msg string) bool
}

// Router switches between the login screen and the console.
type Router interface {
	ToLogin()
	ToConsole()
}

// AdminAPI is the part of the REST client the console views use.
type AdminAPI interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	CreateUser(ctx context.Context, req model.NewUser) error
	DeleteUser(ctx context.Context, id int64) error
	BanUser(ctx context.Context, id int64, hours model.BanHours) error
	UnbanUser(ctx context.Context, id int64) error
	ListPeers(ctx context.Context) (map[string]model.Peer, error)
	ListReports(ctx context.Context) ([]model.Report, error)
	ResolveReport(ctx context.Context, id int64) error
	Logs(ctx context.Context) (string, error)
}

// Authenticator performs the login round trip.
type Authenticator interface {
	Login(ctx context.Context, creds model.Credentials) (*model.AuthResponse, error)
}

// TabRenderer shows the active tab.
type TabRenderer interface {
	ShowTab(tab Tab, title string)
}

// UsersRenderer draws the users table and its two forms.
type UsersRenderer interface {
	RenderUsers(rows []UserRow)
	SetBanTarget(id int64, username string)
	ResetCreateForm()
}

// PeersRenderer draws the peer cards.
type PeersRenderer interface {
	RenderPeers(list PeerList)
}

// ReportsRenderer draws the reports table and the pending badge.
type ReportsRenderer interface {
	RenderReports(rows []ReportRow)
	SetBadge(count int, visible bool)
}

// LogsRenderer draws the log pane.
type LogsRenderer interface {
	SetLogText(text string)
	ScrollLogsToBottom()
}

// HeaderRenderer shows who is signed in.
type HeaderRenderer interface {
	SetOperator(username, expires string)
}

// View is everything a front-end draws for the console.
type View interface {
	TabRenderer
	UsersRenderer
	PeersRenderer
	ReportsRenderer
	LogsRenderer
	HeaderRenderer
}

// LoginView is what a front-end draws for the login screen.
type LoginView interface {
	SetBusy(busy bool)
	ShowError(msg string)
	HideError()
}
