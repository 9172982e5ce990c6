package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/LunovVladyslav/ws-tutorial/pkg/api/apitest"
	"github.com/LunovVladyslav/ws-tutorial/pkg/model"
)

type cli struct {
	t    *testing.T
	srv  *apitest.Server
	base []string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("HOME", dir)

	srv := apitest.NewServer(t)
	srv.AddAccount("root", apitest.Account{Password: "secret1", Role: model.RoleAdmin, Token: "admin-token"})
	srv.AddAccount("alice", apitest.Account{Password: "x", Role: model.RoleUser, Token: "t1"})
	return &cli{
		t:   t,
		srv: srv,
		base: []string{
			"-env", filepath.Join(dir, "missing.env"),
			"-server", srv.URL,
			"-storage", "file",
			"-storage-path", filepath.Join(dir, "session.yaml"),
			"-log-level", "error",
		},
	}
}

func (c *cli) run(stdin string, args ...string) (int, string, string) {
	c.t.Helper()
	var stdout, stderr bytes.Buffer
	all := append(append([]string{}, c.base...), args...)
	code := run(context.Background(), all, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestNonAdminLoginIsRefused(t *testing.T) {
	c := newCLI(t)

	code, _, stderr := c.run("", "login", "-u", "alice", "-p", "x")
	if code != 1 || !strings.Contains(stderr, "Access denied: Admins only") {
		t.Fatalf("login = %d, stderr %q", code, stderr)
	}

	code, _, stderr = c.run("", "users")
	if code != 1 || !strings.Contains(stderr, "Access Denied: Admins Only") {
		t.Fatalf("users = %d, stderr %q", code, stderr)
	}
	if got := c.srv.CountRequests("GET", "/api/admin/users"); got != 0 {
		t.Errorf("refused console fetched users %d times", got)
	}
}

func TestAdminSession(t *testing.T) {
	c := newCLI(t)
	id := c.srv.AddUser("mallory", model.RoleUser, nil)

	if code, _, stderr := c.run("root\nsecret1\n", "login"); code != 0 {
		t.Fatalf("login = %d, stderr %q", code, stderr)
	}

	code, stdout, stderr := c.run("", "-o", "yaml", "users")
	if code != 0 {
		t.Fatalf("users = %d, stderr %q", code, stderr)
	}
	var doc struct {
		Users []struct {
			Username string `yaml:"username"`
			Status   string `yaml:"status"`
		} `yaml:"users"`
	}
	if err := yaml.Unmarshal([]byte(stdout), &doc); err != nil {
		t.Fatalf("users output: %v\n%s", err, stdout)
	}
	if len(doc.Users) != 1 || doc.Users[0].Username != "mallory" || doc.Users[0].Status != "USER" {
		t.Errorf("users = %+v", doc.Users)
	}

	if code, _, stderr := c.run("", "ban", "1", "permanent"); code != 0 {
		t.Fatalf("ban = %d, stderr %q", code, stderr)
	}
	if u, _ := c.srv.User(id); u.BannedUntil == nil {
		t.Fatal("user not banned")
	}

	if code, _, _ := c.run("n\n", "user-delete", "1"); code != 0 {
		t.Fatalf("declined delete = %d", code)
	}
	if _, ok := c.srv.User(id); !ok {
		t.Fatal("declined delete removed the user")
	}

	if code, _, stderr := c.run("", "-y", "unban", "1"); code != 0 {
		t.Fatalf("unban = %d, stderr %q", code, stderr)
	}
	if u, _ := c.srv.User(id); u.BannedUntil != nil {
		t.Fatal("user still banned")
	}

	if code, _, stderr := c.run("", "user-create", "-u", "mallory", "-p", "secret1"); code != 1 || !strings.Contains(stderr, "Username already exists") {
		t.Fatalf("duplicate create = %d, stderr %q", code, stderr)
	}

	if code, _, stderr := c.run("", "user-create", "-u", "dave", "-p", "pw", "-role", "moderator"); code != 1 || !strings.Contains(stderr, "unknown role") {
		t.Fatalf("bad role create = %d, stderr %q", code, stderr)
	}
	if code, _, stderr := c.run("", "user-create", "-u", "john_doe", "-p", "pw", "-role", "admin"); code != 0 {
		t.Fatalf("create = %d, stderr %q", code, stderr)
	}
	if got := c.srv.CountRequests("POST", "/api/admin/users"); got != 2 {
		t.Errorf("create requests = %d, want 2", got)
	}

	code, stdout, _ = c.run("", "-o", "yaml", "whoami")
	var who map[string]string
	if err := yaml.Unmarshal([]byte(stdout), &who); err != nil || code != 0 {
		t.Fatalf("whoami = %d, %v\n%s", code, err, stdout)
	}
	if who["username"] != "root" || who["server"] != c.srv.URL {
		t.Errorf("whoami = %v", who)
	}

	if code, _, _ := c.run("", "logout"); code != 0 {
		t.Fatalf("logout = %d", code)
	}
	if code, _, _ := c.run("", "whoami"); code != 1 {
		t.Fatalf("whoami after logout = %d", code)
	}
}

func TestLogsAndReports(t *testing.T) {
	c := newCLI(t)
	c.srv.SetLogs("boot ok\n")
	c.srv.AddReport(model.Report{ID: 4, ReporterUsername: "bob", ReportedContext: "eve", Reason: "spam", Status: model.ReportPending})
	if code, _, stderr := c.run("", "login", "-u", "root", "-p", "secret1"); code != 0 {
		t.Fatalf("login = %d, stderr %q", code, stderr)
	}

	code, stdout, _ := c.run("", "logs")
	if code != 0 || stdout != "boot ok\n" {
		t.Fatalf("logs = %d, %q", code, stdout)
	}

	if code, _, _ := c.run("", "resolve", "4"); code != 0 {
		t.Fatalf("resolve = %d", code)
	}
	code, stdout, _ = c.run("", "reports")
	if code != 0 || !strings.Contains(stdout, "RESOLVED") {
		t.Fatalf("reports = %d:\n%s", code, stdout)
	}
}

func TestUsageErrors(t *testing.T) {
	c := newCLI(t)
	if code, _, _ := c.run("", "frobnicate"); code != 2 {
		t.Errorf("unknown command = %d, want 2", code)
	}
	if code, _, _ := c.run(""); code != 2 {
		t.Errorf("no command = %d, want 2", code)
	}
	if code, _, _ := c.run("", "-y", "user-delete", "abc"); code != 1 {
		t.Errorf("bad id = %d, want 1", code)
	}
}

func TestVersion(t *testing.T) {
	var stdout bytes.Buffer
	if code := run(context.Background(), []string{"version"}, strings.NewReader(""), &stdout, &bytes.Buffer{}); code != 0 {
		t.Fatalf("version = %d", code)
	}
	if !strings.HasPrefix(stdout.String(), "adminctl ") {
		t.Errorf("version output = %q", stdout.String())
	}
}
