// Package apitest provides an in-memory stand-in for the server's auth and
// admin endpoints, for exercising the client and the console controllers.
package apitest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/LunovVladyslav/ws-tutorial/pkg/model"
)

// Account is a user the fake server can log in.
type Account struct {
	Password string
	Role     model.Role
	Token    string
}

// Request is a recorded call.
type Request struct {
	Method    string
	Path      string
	Query     string
	Auth      string
	UserAgent string
	RequestID string
	Body      string
}

// Server is a fake backend. Fields may be modified between requests.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	now      func() time.Time
	accounts map[string]Account
	users    map[int64]*model.User
	nextUser int64
	peers    map[string]model.Peer
	reports  map[int64]*model.Report
	logs     string
	requests []Request
	failing  map[string]int // "METHOD /path" prefix -> forced status
}

// NewServer starts a fake backend that is closed when the test ends.
func NewServer(t *testing.T) *Server {
	t.Helper()
	s := &Server{
		now:      time.Now,
		accounts: make(map[string]Account),
		users:    make(map[int64]*model.User),
		nextUser: 1,
		peers:    make(map[string]model.Peer),
		reports:  make(map[int64]*model.Report),
		failing:  make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// AddAccount registers a login.
func (s *Server) AddAccount(username string, a Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[username] = a
}

// AddUser adds a user row and returns its id.
func (s *Server) AddUser(username string, role model.Role, bannedUntil *time.Time) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextUser
	s.nextUser++
	u := &model.User{ID: id, Username: username, Role: role}
	if bannedUntil != nil {
		u.BannedUntil = model.NewTimestamp(*bannedUntil)
	}
	s.users[id] = u
	return id
}

// User returns a copy of the user row, if present.
func (s *Server) User(id int64) (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, false
	}
	return *u, true
}

// AddPeer registers a live connection.
func (s *Server) AddPeer(connID string, p model.Peer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.peers[connID] = p
}

// AddReport stores a report.
func (s *Server) AddReport(r model.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := r
	s.reports[r.ID] = &cp
}

// SetLogs sets the log text.
func (s *Server) SetLogs(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = text
}

// Fail forces every request whose "METHOD /path" starts with prefix to
// answer status with an empty body.
func (s *Server) Fail(prefix string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing[prefix] = status
}

// Requests returns the calls seen so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// CountRequests counts calls matching method and path exactly.
func (s *Server) CountRequests(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	body := string(raw)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, Request{
		Method:    r.Method,
		Path:      r.URL.Path,
		Query:     r.URL.RawQuery,
		Auth:      r.Header.Get("Authorization"),
		UserAgent: r.Header.Get("User-Agent"),
		RequestID: r.Header.Get("X-Request-ID"),
		Body:      body,
	})

	key := r.Method + " " + r.URL.Path
	for prefix, status := range s.failing {
		if strings.HasPrefix(key, prefix) {
			w.WriteHeader(status)
			return
		}
	}

	if r.URL.Path == "/api/auth/login" && r.Method == http.MethodPost {
		s.login(w, body)
		return
	}
	if !strings.HasPrefix(r.URL.Path, "/api/admin/") {
		http.NotFound(w, r)
		return
	}
	if !s.authorised(r.Header.Get("Authorization")) {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	s.admin(w, r, body)
}

func (s *Server) login(w http.ResponseWriter, body string) {
	var creds model.Credentials
	_ = json.Unmarshal([]byte(body), &creds)
	acct, ok := s.accounts[creds.Username]
	if !ok || acct.Password != creds.Password {
		writeJSON(w, http.StatusUnauthorized, model.AuthResponse{Error: "Invalid username or password"})
		return
	}
	writeJSON(w, http.StatusOK, model.AuthResponse{Token: acct.Token, Username: creds.Username, Role: acct.Role})
}

func (s *Server) authorised(header string) bool {
	token := strings.TrimPrefix(header, "Bearer ")
	for _, a := range s.accounts {
		if a.Token == token && a.Role == model.RoleAdmin {
			return true
		}
	}
	return false
}

func (s *Server) admin(w http.ResponseWriter, r *http.Request, body string) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/admin/"), "/")
	switch {
	case parts[0] == "users" && len(parts) == 1 && r.Method == http.MethodGet:
		ids := make([]int64, 0, len(s.users))
		for id := range s.users {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		out := make([]model.User, 0, len(ids))
		for _, id := range ids {
			out = append(out, *s.users[id])
		}
		writeJSON(w, http.StatusOK, out)

	case parts[0] == "users" && len(parts) == 1 && r.Method == http.MethodPost:
		var req model.NewUser
		_ = json.Unmarshal([]byte(body), &req)
		for _, u := range s.users {
			if u.Username == req.Username {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte("Username already exists"))
				return
			}
		}
		id := s.nextUser
		s.nextUser++
		s.users[id] = &model.User{ID: id, Username: req.Username, Role: req.Role}
		writeJSON(w, http.StatusOK, s.users[id])

	case parts[0] == "users" && len(parts) == 2 && r.Method == http.MethodDelete:
		id, _ := strconv.ParseInt(parts[1], 10, 64)
		if _, ok := s.users[id]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		delete(s.users, id)

	case parts[0] == "users" && len(parts) == 3 && parts[2] == "ban" && r.Method == http.MethodPost:
		id, _ := strconv.ParseInt(parts[1], 10, 64)
		u, ok := s.users[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		hours, err := strconv.Atoi(r.URL.Query().Get("hours"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		until := s.now().Add(time.Duration(hours) * time.Hour)
		if hours == int(model.PermanentBan) {
			until = s.now().AddDate(100, 0, 0)
		}
		u.BannedUntil = model.NewTimestamp(until)

	case parts[0] == "users" && len(parts) == 3 && parts[2] == "unban" && r.Method == http.MethodPost:
		id, _ := strconv.ParseInt(parts[1], 10, 64)
		u, ok := s.users[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		u.BannedUntil = nil

	case parts[0] == "peers" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, s.peers)

	case parts[0] == "reports" && len(parts) == 1 && r.Method == http.MethodGet:
		out := make([]model.Report, 0, len(s.reports))
		for _, rep := range s.reports {
			out = append(out, *rep)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp.Time) })
		writeJSON(w, http.StatusOK, out)

	case parts[0] == "reports" && len(parts) == 3 && parts[2] == "resolve" && r.Method == http.MethodPut:
		id, _ := strconv.ParseInt(parts[1], 10, 64)
		rep, ok := s.reports[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		rep.Status = model.ReportResolved

	case parts[0] == "logs" && r.Method == http.MethodGet:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(s.logs))

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
