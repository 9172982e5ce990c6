package console

import (
	"context"
	"log/slog"
	"time"

	"github.com/LunovVladyslav/ws-tutorial/pkg/api"
	"github.com/LunovVladyslav/ws-tutorial/pkg/model"
)

// Operator-facing messages of the users view.
const (
	MsgLoadUsersFailed = "Error loading users"
	MsgDeleteFailed    = "Failed to delete user"
	MsgBanFailed       = "Failed to ban user"
	MsgUnbanFailed     = "Failed to unban user"
	MsgConfirmDelete   = "Are you sure you want to delete this user?"
	MsgConfirmUnban    = "Are you sure you want to unban this user?"
)

// StatusBanned replaces the role in the status column while a ban is active.
const StatusBanned = "BANNED"

const bannedUntilLayout = "2006-01-02 15:04:05"

// UserRow is one rendered line of the users table.
type UserRow struct {
	ID          int64
	Username    string
	Role        model.Role
	Status      string // StatusBanned or the role name
	Banned      bool
	BannedUntil string // set only while banned
	Actions     []Action
}

// UserRows computes the table rows as seen at now. Every row offers Delete,
// then Unban while the ban is active or Ban otherwise.
func UserRows(users []model.User, now time.Time) []UserRow {
	rows := make([]UserRow, 0, len(users))
	for i := range users {
		u := &users[i]
		row := UserRow{
			ID:       u.ID,
			Username: u.Username,
			Role:     u.Role,
			Status:   u.Role.String(),
			Actions:  []Action{{Name: ActionUserDelete, Label: "Delete", ID: u.ID, Target: u.Username}},
		}
		if u.IsBannedAt(now) {
			row.Banned = true
			row.Status = StatusBanned
			row.BannedUntil = u.BannedUntil.Local().Format(bannedUntilLayout)
			row.Actions = append(row.Actions, Action{Name: ActionUserUnban, Label: "Unban", ID: u.ID, Target: u.Username})
		} else {
			row.Actions = append(row.Actions, Action{Name: ActionUserBan, Label: "Ban", ID: u.ID, Target: u.Username})
		}
		rows = append(rows, row)
	}
	return rows
}

// UsersView loads the account list and runs the account actions.
type UsersView struct {
	api    AdminAPI
	prompt Prompter
	render UsersRenderer
	modals *Modals
	now    func() time.Time

	banID       int64
	banUsername string
}

// NewUsersView creates the users view.
func NewUsersView(client AdminAPI, prompt Prompter, render UsersRenderer, modals *Modals, now func() time.Time) *UsersView {
	if now == nil {
		now = time.Now
	}
	return &UsersView{api: client, prompt: prompt, render: render, modals: modals, now: now}
}

// Load fetches and renders the users.
func (v *UsersView) Load(ctx context.Context) {
	users, err := v.api.ListUsers(ctx)
	if err != nil {
		slog.Error("load users", "err", err)
		v.prompt.Alert(MsgLoadUsersFailed)
		return
	}
	v.render.RenderUsers(UserRows(users, v.now()))
}

// OpenCreate shows the create-user form.
func (v *UsersView) OpenCreate() error {
	return v.modals.Open(ModalAddUser)
}

// Create submits the create-user form. On success the form is closed and
// cleared and the list reloaded; otherwise the server's answer is alerted
// and the form stays open.
func (v *UsersView) Create(ctx context.Context, req model.NewUser) bool {
	req.Normalize()
	if err := req.CheckRequired(); err != nil {
		v.prompt.Alert(err.Error())
		return false
	}
	if err := v.api.CreateUser(ctx, req); err != nil {
		slog.Error("create user", "username", req.Username, "err", err)
		v.prompt.Alert(api.BodyText(err))
		return false
	}
	slog.Info("user created", "username", req.Username, "role", req.Role)
	_ = v.modals.Close(ModalAddUser)
	v.Load(ctx)
	v.render.ResetCreateForm()
	return true
}

// Delete removes a user after confirmation. Declining sends nothing.
func (v *UsersView) Delete(ctx context.Context, id int64) {
	if !v.prompt.Confirm(MsgConfirmDelete) {
		return
	}
	if err := v.api.DeleteUser(ctx, id); err != nil {
		slog.Error("delete user", "id", id, "err", err)
		v.prompt.Alert(MsgDeleteFailed)
		return
	}
	slog.Info("user deleted", "id", id)
	v.Load(ctx)
}

// OpenBan remembers the target and shows the ban form.
func (v *UsersView) OpenBan(id int64, username string) error {
	v.banID = id
	v.banUsername = username
	v.render.SetBanTarget(id, username)
	return v.modals.Open(ModalBanUser)
}

// BanTarget returns the user the ban form was opened for.
func (v *UsersView) BanTarget() (int64, string) {
	return v.banID, v.banUsername
}

// SubmitBan parses the duration typed into the ban form and submits it.
func (v *UsersView) SubmitBan(ctx context.Context, hours string) bool {
	h, err := model.ParseBanHours(hours)
	if err != nil {
		v.prompt.Alert(err.Error())
		return false
	}
	return v.Ban(ctx, h)
}

// Ban bans the current target for hours.
func (v *UsersView) Ban(ctx context.Context, hours model.BanHours) bool {
	if !hours.Valid() {
		v.prompt.Alert(model.ErrBanHours.Error())
		return false
	}
	if err := v.api.BanUser(ctx, v.banID, hours); err != nil {
		slog.Error("ban user", "id", v.banID, "hours", hours, "err", err)
		v.prompt.Alert(MsgBanFailed)
		return false
	}
	slog.Info("user banned", "id", v.banID, "username", v.banUsername, "duration", hours.String())
	_ = v.modals.Close(ModalBanUser)
	v.Load(ctx)
	return true
}

// Unban lifts a ban after confirmation. Declining sends nothing.
func (v *UsersView) Unban(ctx context.Context, id int64) {
	if !v.prompt.Confirm(MsgConfirmUnban) {
		return
	}
	if err := v.api.UnbanUser(ctx, id); err != nil {
		slog.Error("unban user", "id", id, "err", err)
		v.prompt.Alert(MsgUnbanFailed)
		return
	}
	slog.Info("user unbanned", "id", id)
	v.Load(ctx)
}
