package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/LunovVladyslav/ws-tutorial/pkg/console"
)

// loginScreen is the sign-in form.
type loginScreen struct {
	do func(func())

	username *widget.Entry
	password *widget.Entry
	submit   *widget.Button
	spinner  *widget.ProgressBarInfinite
	errLabel *widget.Label

	content fyne.CanvasObject
}

func newLoginScreen(do func(func()), onSubmit func(username, password string)) *loginScreen {
	s := &loginScreen{do: do}

	s.username = widget.NewEntry()
	s.username.SetPlaceHolder("Username")
	s.password = widget.NewPasswordEntry()
	s.password.SetPlaceHolder("Password")

	send := func() { onSubmit(s.username.Text, s.password.Text) }
	s.username.OnSubmitted = func(string) { send() }
	s.password.OnSubmitted = func(string) { send() }
	s.submit = widget.NewButtonWithIcon("Login", theme.LoginIcon(), send)
	s.submit.Importance = widget.HighImportance

	s.spinner = widget.NewProgressBarInfinite()
	s.spinner.Stop()
	s.spinner.Hide()

	s.errLabel = widget.NewLabel("")
	s.errLabel.Importance = widget.DangerImportance
	s.errLabel.Wrapping = fyne.TextWrapWord
	s.errLabel.Hide()

	form := container.NewVBox(
		widget.NewLabelWithStyle("Admin Console", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		widget.NewSeparator(),
		widget.NewLabel("Username"),
		s.username,
		widget.NewLabel("Password"),
		s.password,
		s.errLabel,
		s.submit,
		s.spinner,
	)
	sized := container.New(layout.NewGridWrapLayout(fyne.NewSize(340, 360)), form)
	s.content = container.NewCenter(sized)
	return s
}

// SetBusy disables the form while a login is in flight.
func (s *loginScreen) SetBusy(busy bool) {
	s.do(func() {
		if busy {
			s.submit.Disable()
			s.spinner.Show()
			s.spinner.Start()
			return
		}
		s.spinner.Stop()
		s.spinner.Hide()
		s.submit.Enable()
	})
}

// ShowError shows msg under the form.
func (s *loginScreen) ShowError(msg string) {
	s.do(func() {
		s.errLabel.SetText(msg)
		s.errLabel.Show()
	})
}

// HideError hides the error line.
func (s *loginScreen) HideError() {
	s.do(func() { s.errLabel.Hide() })
}

// reset clears the password and any error, for a fresh visit.
func (s *loginScreen) reset() {
	s.password.SetText("")
	s.errLabel.Hide()
	s.spinner.Stop()
	s.spinner.Hide()
	s.submit.Enable()
}

var _ console.LoginView = (*loginScreen)(nil)
