package console_test

import (
	"testing"

	"github.com/LunovVladyslav/ws-tutorial/pkg/api"
	"github.com/LunovVladyslav/ws-tutorial/pkg/api/apitest"
	"github.com/LunovVladyslav/ws-tutorial/pkg/console"
	"github.com/LunovVladyslav/ws-tutorial/pkg/model"
	"github.com/LunovVladyslav/ws-tutorial/pkg/session"
	"github.com/LunovVladyslav/ws-tutorial/pkg/storage"
)

const adminToken = "admin-token"

// fakeUI records everything the controllers ask a front-end to do.
type fakeUI struct {
	alerts   []string
	confirms []string
	answer   bool

	toLogin   int
	toConsole int

	tab   console.Tab
	title string

	users       []console.UserRow
	userRenders int
	banID       int64
	banUsername string
	formResets  int

	peers       console.PeerList
	peerRenders int

	reports      []console.ReportRow
	badge        int
	badgeVisible bool

	logTexts []string
	scrolled int

	operator string
	expires  string

	busy      []bool
	loginErr  string
	errHidden int
}

func (f *fakeUI) Alert(msg string) { f.alerts = append(f.alerts, msg) }
func (f *fakeUI) Confirm(msg string) bool {
	f.confirms = append(f.confirms, msg)
	return f.answer
}
func (f *fakeUI) ToLogin() { f.toLogin++ }
func (f *fakeUI) ToConsole() { f.toConsole++ }
func (f *fakeUI) ShowTab(tab console.Tab, title string) { f.tab, f.title = tab, title }
func (f *fakeUI) RenderUsers(rows []console.UserRow) {
	f.users = rows
	f.userRenders++
}
func (f *fakeUI) SetBanTarget(id int64, username string) { f.banID, f.banUsername = id, username }
func (f *fakeUI) ResetCreateForm() { f.formResets++ }
func (f *fakeUI) RenderPeers(list console.PeerList) {
	f.peers = list
	f.peerRenders++
}
func (f *fakeUI) RenderReports(rows []console.ReportRow) { f.reports = rows }
func (f *fakeUI) SetBadge(count int, visible bool) { f.badge, f.badgeVisible = count, visible }
func (f *fakeUI) SetLogText(text string) { f.logTexts = append(f.logTexts, text) }
func (f *fakeUI) ScrollLogsToBottom() { f.scrolled++ }
func (f *fakeUI) SetOperator(username, expires string) { f.operator, f.expires = username, expires }
func (f *fakeUI) SetBusy(busy bool) { f.busy = append(f.busy, busy) }
func (f *fakeUI) ShowError(msg string) { f.loginErr = msg }
func (f *fakeUI) HideError() { f.errHidden++ }

func (f *fakeUI) lastAlert() string {
	if len(f.alerts) == 0 {
		return ""
	}
	return f.alerts[len(f.alerts)-1]
}

type fakeModal struct {
	shown bool
	shows int
	hides int
}

func (m *fakeModal) Show() {
	m.shown = true
	m.shows++
}

func (m *fakeModal) Hide() {
	m.shown = false
	m.hides++
}

type harness struct {
	srv     *apitest.Server
	client  *api.Client
	store   *storage.Memory
	ui      *fakeUI
	addUser *fakeModal
	banUser *fakeModal
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	srv := apitest.NewServer(t)
	srv.AddAccount("root", apitest.Account{Password: "secret1", Role: model.RoleAdmin, Token: adminToken})
	srv.AddAccount("alice", apitest.Account{Password: "x", Role: model.RoleUser, Token: "t1"})
	client, err := api.New(srv.URL)
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	return &harness{
		srv:     srv,
		client:  client,
		store:   storage.NewMemory(),
		ui:      &fakeUI{answer: true},
		addUser: &fakeModal{},
		banUser: &fakeModal{},
	}
}

func (h *harness) signIn(t *testing.T) {
	t.Helper()
	if err := session.NewStore(h.store).Set(session.Session{Token: adminToken, Role: model.RoleAdmin, Username: "root"}); err != nil {
		t.Fatalf("store session: %v", err)
	}
}

func (h *harness) config() console.Config {
	return console.Config{
		Store:    session.NewStore(h.store),
		Client:   h.client,
		View:     h.ui,
		Prompter: h.ui,
		Router:   h.ui,
		Modals: map[string]console.Modal{
			console.ModalAddUser: h.addUser,
			console.ModalBanUser: h.banUser,
		},
	}
}

func (h *harness) open(t *testing.T) *console.Console {
	t.Helper()
	h.signIn(t)
	c, err := console.New(h.config())
	if err != nil {
		t.Fatalf("console.New: %v", err)
	}
	return c
}
