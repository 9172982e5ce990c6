package api_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/LunovVladyslav/ws-tutorial/pkg/api"
	"github.com/LunovVladyslav/ws-tutorial/pkg/api/apitest"
	"github.com/LunovVladyslav/ws-tutorial/pkg/model"
)

func newTestClient(t *testing.T) (*apitest.Server, *api.Client) {
	t.Helper()
	srv := apitest.NewServer(t)
	srv.AddAccount("root", apitest.Account{Password: "secret1", Role: model.RoleAdmin, Token: "admin-token"})
	c, err := api.New(srv.URL, api.WithToken(api.StaticToken("admin-token")))
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	return srv, c
}

func TestNewRejectsBadURL(t *testing.T) {
	for _, u := range []string{"ftp://example.com", "://bad", "localhost:8080"} {
		if _, err := api.New(u); err == nil {
			t.Errorf("api.New(%q): expected error", u)
		}
	}
}

func TestLogin(t *testing.T) {
	srv, c := newTestClient(t)
	ctx := context.Background()

	resp, err := c.Login(ctx, model.Credentials{Username: "root", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	want := &model.AuthResponse{Token: "admin-token", Username: "root", Role: model.RoleAdmin}
	if diff := cmp.Diff(want, resp); diff != "" {
		t.Errorf("Login mismatch (-want +got):\n%s", diff)
	}

	reqs := srv.Requests()
	if len(reqs) != 1 || reqs[0].Auth != "" {
		t.Errorf("login must not send Authorization, got %+v", reqs)
	}
}

func TestLoginFailureMessages(t *testing.T) {
	srv, c := newTestClient(t)
	ctx := context.Background()

	_, err := c.Login(ctx, model.Credentials{Username: "root", Password: "wrong"})
	if err == nil || err.Error() != "Invalid username or password" {
		t.Fatalf("Login wrong password: err = %v", err)
	}

	srv.Fail("POST /api/auth/login", http.StatusInternalServerError)
	_, err = c.Login(ctx, model.Credentials{Username: "root", Password: "secret1"})
	if err == nil || err.Error() != api.DefaultLoginError {
		t.Fatalf("Login empty body: err = %v, want %q", err, api.DefaultLoginError)
	}
}

func TestAdminRequestsCarryBearerToken(t *testing.T) {
	srv, c := newTestClient(t)
	if _, err := c.ListUsers(context.Background()); err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	reqs := srv.Requests()
	if len(reqs) != 1 {
		t.Fatalf("expected one request, got %d", len(reqs))
	}
	if reqs[0].Auth != "Bearer admin-token" {
		t.Errorf("Authorization = %q", reqs[0].Auth)
	}
}

func TestRequestHeaders(t *testing.T) {
	srv := apitest.NewServer(t)
	c, err := api.New(srv.URL+"/", api.WithUserAgent("adminctl/dev"))
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	_, _ = c.ListUsers(context.Background())
	_, _ = c.ListUsers(context.Background())

	reqs := srv.Requests()
	if len(reqs) != 2 {
		t.Fatalf("got %d requests", len(reqs))
	}
	if reqs[0].Path != "/api/admin/users" {
		t.Errorf("path = %q", reqs[0].Path)
	}
	if reqs[0].UserAgent != "adminctl/dev" {
		t.Errorf("User-Agent = %q", reqs[0].UserAgent)
	}
	if reqs[0].RequestID == "" || reqs[0].RequestID == reqs[1].RequestID {
		t.Errorf("request ids = %q, %q", reqs[0].RequestID, reqs[1].RequestID)
	}
}

func TestUserLifecycle(t *testing.T) {
	srv, c := newTestClient(t)
	ctx := context.Background()

	if err := c.CreateUser(ctx, model.NewUser{Username: "alice", Password: "secret1", Role: model.RoleUser}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	err := c.CreateUser(ctx, model.NewUser{Username: "alice", Password: "secret1", Role: model.RoleUser})
	var se *api.StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusBadRequest {
		t.Fatalf("CreateUser duplicate: err = %v", err)
	}
	if got := api.BodyText(err); got != "Username already exists" {
		t.Errorf("BodyText = %q", got)
	}

	users, err := c.ListUsers(ctx)
	if err != nil || len(users) != 1 {
		t.Fatalf("ListUsers = %v, %v", users, err)
	}
	id := users[0].ID

	if err := c.BanUser(ctx, id, 24); err != nil {
		t.Fatalf("BanUser: %v", err)
	}
	if u, _ := srv.User(id); !u.IsBannedAt(time.Now()) {
		t.Fatalf("BanUser: user not banned")
	}
	reqs := srv.Requests()
	if last := reqs[len(reqs)-1]; last.Query != "hours=24" {
		t.Errorf("ban query = %q, want hours=24", last.Query)
	}

	if err := c.UnbanUser(ctx, id); err != nil {
		t.Fatalf("UnbanUser: %v", err)
	}
	if u, _ := srv.User(id); u.BannedUntil != nil {
		t.Fatalf("UnbanUser: ban still set")
	}

	if err := c.DeleteUser(ctx, id); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if err := c.DeleteUser(ctx, id); !errors.As(err, &se) || se.StatusCode != http.StatusNotFound {
		t.Fatalf("DeleteUser missing: err = %v", err)
	}
}

func TestPermanentBanQuery(t *testing.T) {
	srv, c := newTestClient(t)
	id := srv.AddUser("mallory", model.RoleUser, nil)

	if err := c.BanUser(context.Background(), id, model.PermanentBan); err != nil {
		t.Fatalf("BanUser: %v", err)
	}
	reqs := srv.Requests()
	if got := reqs[len(reqs)-1].Query; got != "hours=-1" {
		t.Errorf("query = %q, want hours=-1", got)
	}
	u, _ := srv.User(id)
	if !u.IsBannedAt(time.Now().AddDate(50, 0, 0)) {
		t.Errorf("permanent ban should outlast fifty years")
	}
}

func TestListPeers(t *testing.T) {
	srv, c := newTestClient(t)
	srv.AddPeer("conn-1", model.Peer{ID: "conn-1", Username: "alice"})
	srv.AddPeer("conn-2", model.Peer{ID: "conn-2"})

	peers, err := c.ListPeers(context.Background())
	if err != nil {
		t.Fatalf("ListPeers: %v", err)
	}
	want := map[string]model.Peer{
		"conn-1": {ID: "conn-1", Username: "alice"},
		"conn-2": {ID: "conn-2"},
	}
	if diff := cmp.Diff(want, peers); diff != "" {
		t.Errorf("ListPeers mismatch (-want +got):\n%s", diff)
	}
}

func TestReports(t *testing.T) {
	srv, c := newTestClient(t)
	ctx := context.Background()
	srv.AddReport(model.Report{ID: 7, ReporterUsername: "bob", ReportedContext: "mallory", Reason: "spam", Status: model.ReportPending})

	reports, err := c.ListReports(ctx)
	if err != nil || len(reports) != 1 {
		t.Fatalf("ListReports = %v, %v", reports, err)
	}
	if err := c.ResolveReport(ctx, 7); err != nil {
		t.Fatalf("ResolveReport: %v", err)
	}
	reports, _ = c.ListReports(ctx)
	if reports[0].Status != model.ReportResolved {
		t.Errorf("status = %s, want RESOLVED", reports[0].Status)
	}
}

func TestLogs(t *testing.T) {
	srv, c := newTestClient(t)
	srv.SetLogs("line 1\nline 2")

	text, err := c.Logs(context.Background())
	if err != nil {
		t.Fatalf("Logs: %v", err)
	}
	if text != "line 1\nline 2" {
		t.Errorf("Logs = %q", text)
	}

	srv.Fail("GET /api/admin/logs", http.StatusInternalServerError)
	if _, err := c.Logs(context.Background()); err == nil {
		t.Fatal("Logs: expected error on 500")
	}
}

func TestTransportError(t *testing.T) {
	srv, c := newTestClient(t)
	srv.Close()

	_, err := c.ListUsers(context.Background())
	if err == nil {
		t.Fatal("expected transport error")
	}
	var se *api.StatusError
	if errors.As(err, &se) {
		t.Fatalf("transport failure must not be a StatusError: %v", err)
	}
}

func TestWithSessionToken(t *testing.T) {
	srv, c := newTestClient(t)
	other := c.WithSessionToken("stale")

	_, err := other.ListUsers(context.Background())
	var se *api.StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusForbidden {
		t.Fatalf("stale token: err = %v", err)
	}
	if _, err := c.ListUsers(context.Background()); err != nil {
		t.Fatalf("original client should keep its token: %v", err)
	}
	_ = srv
}

func TestMetricsCountTraffic(t *testing.T) {
	srv, c := newTestClient(t)
	ctx := context.Background()

	_, _ = c.Login(ctx, model.Credentials{Username: "root", Password: "secret1"})
	_, _ = c.Login(ctx, model.Credentials{Username: "root", Password: "wrong"})
	_, _ = c.WithSessionToken("stale").ListUsers(ctx)
	_, _ = c.ListUsers(ctx)
	srv.Close()
	_, _ = c.ListUsers(ctx)

	got := c.Metrics().Snapshot()
	want := api.MetricsSnapshot{
		Requests:        5,
		ErrorResponses:  2,
		TransportErrors: 1,
		Logins:          1,
		FailedLogins:    1,
	}
	opts := cmpopts.IgnoreFields(api.MetricsSnapshot{}, "Uptime", "AvgLatency", "MaxLatency")
	if diff := cmp.Diff(want, got, opts); diff != "" {
		t.Errorf("metrics mismatch (-want +got):\n%s", diff)
	}
}

func TestLogSummaryIncludesLogins(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	m := api.NewMetrics()
	m.Logins.Add(2)
	m.FailedLogins.Add(1)
	m.LogSummary()

	for _, want := range []string{`"logins":2`, `"failed_logins":1`} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("summary %s missing %s", buf.String(), want)
		}
	}
}
