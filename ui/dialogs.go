package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/LunovVladyslav/ws-tutorial/pkg/console"
	"github.com/LunovVladyslav/ws-tutorial/pkg/model"
)

// Prompter shows alerts and confirmations as dialogs over the main window.
type Prompter struct {
	window fyne.Window
	do     func(func())
}

// Alert shows msg in an information dialog.
func (p *Prompter) Alert(msg string) {
	p.do(func() {
		dialog.ShowInformation("Admin Console", msg, p.window)
	})
}

// Confirm shows msg with Yes/No and waits for the answer. It must run on the
// console loop, never on the UI thread.
func (p *Prompter) Confirm(msg string) bool {
	answer := make(chan bool, 1)
	p.do(func() {
		dialog.ShowConfirm("Confirm", msg, func(ok bool) { answer <- ok }, p.window)
	})
	return <-answer
}

// formModal is a form laid over the window on a dimmed backdrop. It is built
// once and shown or hidden by the console's modal registry. A tap on the
// backdrop, outside the form, calls onBackdrop.
type formModal struct {
	do     func(func())
	canvas fyne.Canvas

	backdrop *backdrop
	panel    *panel
	overlay  *fyne.Container
	shown    bool
}

func newFormModal(window fyne.Window, do func(func()), title string, content fyne.CanvasObject, size fyne.Size, onBackdrop func()) formModal {
	bd := newBackdrop(onBackdrop)
	p := newPanel(widget.NewCard(title, "", content))
	sized := container.New(layout.NewGridWrapLayout(size), p)
	return formModal{
		do:       do,
		canvas:   window.Canvas(),
		backdrop: bd,
		panel:    p,
		overlay:  container.NewStack(bd, container.NewCenter(sized)),
	}
}

func (m *formModal) Show() {
	m.do(func() {
		if m.shown {
			return
		}
		m.shown = true
		m.overlay.Resize(m.canvas.Size())
		m.canvas.Overlays().Add(m.overlay)
	})
}

func (m *formModal) Hide() {
	m.do(func() {
		if !m.shown {
			return
		}
		m.shown = false
		m.canvas.Overlays().Remove(m.overlay)
	})
}

// backdrop dims the window behind a form and reports taps on it.
type backdrop struct {
	widget.BaseWidget
	onTap func()
}

func newBackdrop(onTap func()) *backdrop {
	b := &backdrop{onTap: onTap}
	b.ExtendBaseWidget(b)
	return b
}

func (b *backdrop) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(canvas.NewRectangle(theme.Color(theme.ColorNameShadow)))
}

func (b *backdrop) Tapped(*fyne.PointEvent) {
	if b.onTap != nil {
		b.onTap()
	}
}

// panel holds the form and swallows taps so they never reach the backdrop.
type panel struct {
	widget.BaseWidget
	content fyne.CanvasObject
}

func newPanel(content fyne.CanvasObject) *panel {
	p := &panel{content: content}
	p.ExtendBaseWidget(p)
	return p
}

func (p *panel) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.content)
}

func (p *panel) Tapped(*fyne.PointEvent) {}

// addUserModal is the create-account form.
type addUserModal struct {
	formModal
	username *widget.Entry
	password *widget.Entry
	role     *widget.Select
}

func newAddUserModal(window fyne.Window, do func(func()), onCreate func(model.NewUser), onCancel, onBackdrop func()) *addUserModal {
	var roles []string
	for _, r := range model.Roles() {
		roles = append(roles, r.String())
	}
	m := &addUserModal{
		username: widget.NewEntry(),
		password: widget.NewPasswordEntry(),
		role:     widget.NewSelect(roles, nil),
	}
	m.username.SetPlaceHolder("Username")
	m.password.SetPlaceHolder("Password")
	m.role.SetSelected(string(model.RoleUser))

	create := widget.NewButton("Create", func() {
		onCreate(model.NewUser{
			Username: m.username.Text,
			Password: m.password.Text,
			Role:     model.Role(m.role.Selected),
		})
	})
	create.Importance = widget.HighImportance
	cancel := widget.NewButton("Cancel", onCancel)

	content := container.NewVBox(
		widget.NewLabel("Username"),
		m.username,
		widget.NewLabel("Password"),
		m.password,
		widget.NewLabel("Role"),
		m.role,
		container.NewHBox(layout.NewSpacer(), cancel, create),
	)
	m.formModal = newFormModal(window, do, "Add User", content, fyne.NewSize(380, 400), onBackdrop)
	return m
}

// reset clears the form after a successful create.
func (m *addUserModal) reset() {
	m.username.SetText("")
	m.password.SetText("")
	m.role.SetSelected(string(model.RoleUser))
}

// banHourOptions are offered in the duration box; any hour count may be typed.
var banHourOptions = []string{"1", "24", "168", "720", "permanent"}

// banModal asks for a ban duration.
type banModal struct {
	formModal
	target *widget.Label
	hours  *widget.SelectEntry
}

func newBanModal(window fyne.Window, do func(func()), onSubmit func(hours string), onCancel, onBackdrop func()) *banModal {
	m := &banModal{
		target: widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		hours:  widget.NewSelectEntry(banHourOptions),
	}
	m.hours.SetText("24")

	ban := widget.NewButton("Ban", func() { onSubmit(m.hours.Text) })
	ban.Importance = widget.DangerImportance
	cancel := widget.NewButton("Cancel", onCancel)

	content := container.NewVBox(
		m.target,
		widget.NewLabel("Duration in hours (-1 or permanent for no expiry)"),
		m.hours,
		container.NewHBox(layout.NewSpacer(), cancel, ban),
	)
	m.formModal = newFormModal(window, do, "Ban User", content, fyne.NewSize(380, 260), onBackdrop)
	return m
}

func (m *banModal) setTarget(username string) {
	m.target.SetText("Ban " + username)
	m.hours.SetText("24")
}

var (
	_ console.Prompter = (*Prompter)(nil)
	_ console.Modal    = (*addUserModal)(nil)
	_ console.Modal    = (*banModal)(nil)
)
