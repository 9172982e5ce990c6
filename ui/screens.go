package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/LunovVladyslav/ws-tutorial/pkg/console"
	"github.com/LunovVladyslav/ws-tutorial/pkg/model"
	"github.com/LunovVladyslav/ws-tutorial/pkg/version"
)

// menuLabels are the tab captions; the longer titles head the page.
var menuLabels = map[console.Tab]string{
	console.TabUsers:   "Users",
	console.TabPeers:   "Peers",
	console.TabLogs:    "Logs",
	console.TabReports: "Reports",
}

// consoleScreen is the signed-in window content. Every exported method may
// be called from the console loop; widget work is marshalled through do.
type consoleScreen struct {
	do       func(func())
	dispatch func(console.Action) bool

	addUser *addUserModal
	banUser *banModal

	title    *widget.Label
	operator *widget.Label
	tabs     *container.AppTabs
	tabItems map[console.Tab]*container.TabItem
	shown    console.Tab

	users    []console.UserRow
	userList *widget.List

	peerBox *fyne.Container

	reports    []console.ReportRow
	reportList *widget.List

	logText   *widget.Label
	logScroll *container.Scroll

	content fyne.CanvasObject
}

func newConsoleScreen(do func(func()), dispatch func(console.Action) bool, addUser *addUserModal, banUser *banModal) *consoleScreen {
	s := &consoleScreen{
		do:       do,
		dispatch: dispatch,
		addUser:  addUser,
		banUser:  banUser,
		tabItems: make(map[console.Tab]*container.TabItem),
		shown:    console.TabUsers,
	}

	s.title = widget.NewLabelWithStyle(console.TabUsers.Title(), fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	s.operator = widget.NewLabel("")
	s.operator.TextStyle = fyne.TextStyle{Italic: true}
	logout := widget.NewButtonWithIcon("Logout", theme.LogoutIcon(), func() {
		s.dispatch(console.Action{Name: console.ActionLogout})
	})
	header := container.NewHBox(s.title, layout.NewSpacer(), s.operator, logout)

	panes := map[console.Tab]fyne.CanvasObject{
		console.TabUsers:   s.buildUsers(),
		console.TabPeers:   s.buildPeers(),
		console.TabLogs:    s.buildLogs(),
		console.TabReports: s.buildReports(),
	}
	var items []*container.TabItem
	for _, t := range console.Tabs() {
		item := container.NewTabItem(menuLabels[t], panes[t])
		s.tabItems[t] = item
		items = append(items, item)
	}
	s.tabs = container.NewAppTabs(items...)
	s.tabs.SetTabLocation(container.TabLocationLeading)
	s.tabs.OnSelected = func(item *container.TabItem) {
		t := s.tabOf(item)
		if t == "" || t == s.shown {
			return
		}
		if !s.dispatch(console.Action{Name: console.TabAction(t)}) {
			// Dropped: keep the tab bar on the tab the console still shows.
			s.tabs.Select(s.tabItems[s.shown])
		}
	}

	versionLabel := widget.NewLabel(version.String())
	versionLabel.TextStyle = fyne.TextStyle{Italic: true}
	versionLabel.Importance = widget.LowImportance
	statusBar := container.NewHBox(layout.NewSpacer(), versionLabel)

	s.content = container.NewBorder(header, statusBar, nil, nil, s.tabs)
	return s
}

func (s *consoleScreen) tabOf(item *container.TabItem) console.Tab {
	for t, it := range s.tabItems {
		if it == item {
			return t
		}
	}
	return ""
}

func (s *consoleScreen) toolbar(buttons ...fyne.CanvasObject) fyne.CanvasObject {
	return container.NewHBox(append([]fyne.CanvasObject{layout.NewSpacer()}, buttons...)...)
}

func (s *consoleScreen) button(label string, icon fyne.Resource, name string) *widget.Button {
	return widget.NewButtonWithIcon(label, icon, func() {
		s.dispatch(console.Action{Name: name})
	})
}

// ----- Users -----

func (s *consoleScreen) buildUsers() fyne.CanvasObject {
	s.userList = widget.NewList(
		func() int { return len(s.users) },
		func() fyne.CanvasObject {
			id := widget.NewLabel("0000")
			name := widget.NewLabelWithStyle("username placeholder", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
			status := widget.NewLabel("BANNED until 2006-01-02 15:04:05")
			first := widget.NewButton("Delete", nil)
			second := widget.NewButton("Ban", nil)
			return container.NewHBox(id, name, status, layout.NewSpacer(), first, second)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id >= len(s.users) {
				return
			}
			s.updateUserRow(s.users[id], obj.(*fyne.Container))
		},
	)
	add := s.button("Add User", theme.ContentAddIcon(), console.ActionUserCreate)
	add.Importance = widget.HighImportance
	bar := s.toolbar(add, s.button("Refresh", theme.ViewRefreshIcon(), console.ActionUsersRefresh))
	return container.NewBorder(bar, nil, nil, nil, s.userList)
}

func (s *consoleScreen) updateUserRow(row console.UserRow, c *fyne.Container) {
	c.Objects[0].(*widget.Label).SetText("#" + strconv.FormatInt(row.ID, 10))
	c.Objects[1].(*widget.Label).SetText(row.Username)

	status := c.Objects[2].(*widget.Label)
	switch {
	case row.Banned:
		status.Importance = widget.DangerImportance
		status.SetText(row.Status + " until " + row.BannedUntil)
	case row.Role == model.RoleAdmin:
		status.Importance = widget.HighImportance
		status.SetText(row.Status)
	default:
		status.Importance = widget.MediumImportance
		status.SetText(row.Status)
	}

	buttons := []*widget.Button{c.Objects[4].(*widget.Button), c.Objects[5].(*widget.Button)}
	for i, btn := range buttons {
		if i >= len(row.Actions) {
			btn.Hide()
			continue
		}
		act := row.Actions[i]
		btn.SetText(act.Label)
		btn.Importance = actionImportance(act.Name)
		btn.OnTapped = func() { s.dispatch(act) }
		btn.Show()
		btn.Refresh()
	}
}

func actionImportance(name string) widget.Importance {
	switch name {
	case console.ActionUserDelete:
		return widget.DangerImportance
	case console.ActionUserUnban, console.ActionReportResolve:
		return widget.SuccessImportance
	default:
		return widget.MediumImportance
	}
}

// RenderUsers replaces the table rows.
func (s *consoleScreen) RenderUsers(rows []console.UserRow) {
	s.do(func() {
		s.users = rows
		s.userList.Refresh()
	})
}

// SetBanTarget names the account in the ban dialog.
func (s *consoleScreen) SetBanTarget(_ int64, username string) {
	s.do(func() { s.banUser.setTarget(username) })
}

// ResetCreateForm clears the add-user dialog.
func (s *consoleScreen) ResetCreateForm() {
	s.do(s.addUser.reset)
}

// ----- Peers -----

func (s *consoleScreen) buildPeers() fyne.CanvasObject {
	s.peerBox = container.NewVBox()
	bar := s.toolbar(s.button("Refresh", theme.ViewRefreshIcon(), console.ActionPeersRefresh))
	return container.NewBorder(bar, nil, nil, nil, container.NewVScroll(s.peerBox))
}

// RenderPeers replaces the peer cards.
func (s *consoleScreen) RenderPeers(list console.PeerList) {
	s.do(func() {
		if list.Empty != "" {
			empty := widget.NewLabelWithStyle(list.Empty, fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
			s.peerBox.Objects = []fyne.CanvasObject{empty}
			s.peerBox.Refresh()
			return
		}
		cards := make([]fyne.CanvasObject, 0, len(list.Cards))
		for _, c := range list.Cards {
			cards = append(cards, peerCard(c))
		}
		s.peerBox.Objects = cards
		s.peerBox.Refresh()
	})
}

func peerCard(c console.PeerCard) fyne.CanvasObject {
	lines := container.NewVBox(widget.NewLabel("ID: " + c.ConnID))
	if c.IP != "" {
		lines.Add(widget.NewLabel("IP: " + c.IP))
	}
	if c.Platform != "" {
		lines.Add(widget.NewLabel("Platform: " + c.Platform))
	}
	if c.Status != "" {
		lines.Add(widget.NewLabel("Status: " + c.Status))
	}
	return widget.NewCard(c.Label, "", lines)
}

// ----- Reports -----

func (s *consoleScreen) buildReports() fyne.CanvasObject {
	s.reportList = widget.NewList(
		func() int { return len(s.reports) },
		func() fyne.CanvasObject {
			id := widget.NewLabel("0000")
			who := widget.NewLabelWithStyle("reporter -> context", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
			reason := widget.NewLabel("reason placeholder")
			reason.Truncation = fyne.TextTruncateEllipsis
			when := widget.NewLabel("2006-01-02 15:04:05")
			status := widget.NewLabel("RESOLVED")
			resolve := widget.NewButton("Resolve", nil)
			left := container.NewHBox(id, who)
			right := container.NewHBox(when, status, resolve)
			return container.NewBorder(nil, nil, left, right, reason)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id >= len(s.reports) {
				return
			}
			s.updateReportRow(s.reports[id], obj.(*fyne.Container))
		},
	)
	bar := s.toolbar(s.button("Refresh", theme.ViewRefreshIcon(), console.ActionReportsReload))
	return container.NewBorder(bar, nil, nil, nil, s.reportList)
}

// updateReportRow fills a row built by the reports list. Border containers
// hold the center object first, then the edges in the order given.
func (s *consoleScreen) updateReportRow(row console.ReportRow, c *fyne.Container) {
	reason, left, right := reportRowParts(c)
	left.Objects[0].(*widget.Label).SetText("#" + strconv.FormatInt(row.ID, 10))
	left.Objects[1].(*widget.Label).SetText(row.Reporter + " -> " + row.Context)
	reason.SetText(row.Reason)
	right.Objects[0].(*widget.Label).SetText(row.Time)

	status := right.Objects[1].(*widget.Label)
	if row.Status == model.ReportPending {
		status.Importance = widget.WarningImportance
	} else {
		status.Importance = widget.SuccessImportance
	}
	status.SetText(string(row.Status))

	resolve := right.Objects[2].(*widget.Button)
	if len(row.Actions) == 0 {
		resolve.Hide()
		return
	}
	act := row.Actions[0]
	resolve.SetText(act.Label)
	resolve.Importance = actionImportance(act.Name)
	resolve.OnTapped = func() { s.dispatch(act) }
	resolve.Show()
	resolve.Refresh()
}

func reportRowParts(c *fyne.Container) (reason *widget.Label, left, right *fyne.Container) {
	for _, obj := range c.Objects {
		switch o := obj.(type) {
		case *widget.Label:
			reason = o
		case *fyne.Container:
			if left == nil {
				left = o
			} else {
				right = o
			}
		}
	}
	return reason, left, right
}

// RenderReports replaces the report rows.
func (s *consoleScreen) RenderReports(rows []console.ReportRow) {
	s.do(func() {
		s.reports = rows
		s.reportList.Refresh()
	})
}

// SetBadge shows the pending count on the reports tab.
func (s *consoleScreen) SetBadge(count int, visible bool) {
	s.do(func() {
		item := s.tabItems[console.TabReports]
		if visible {
			item.Text = fmt.Sprintf("%s (%d)", menuLabels[console.TabReports], count)
		} else {
			item.Text = menuLabels[console.TabReports]
		}
		s.tabs.Refresh()
	})
}

// ----- Logs -----

func (s *consoleScreen) buildLogs() fyne.CanvasObject {
	s.logText = widget.NewLabel("")
	s.logText.TextStyle = fyne.TextStyle{Monospace: true}
	s.logScroll = container.NewScroll(s.logText)
	bar := s.toolbar(s.button("Refresh", theme.ViewRefreshIcon(), console.ActionLogsRefresh))
	return container.NewBorder(bar, nil, nil, nil, s.logScroll)
}

// SetLogText replaces the log pane text.
func (s *consoleScreen) SetLogText(text string) {
	s.do(func() { s.logText.SetText(text) })
}

// ScrollLogsToBottom shows the newest lines.
func (s *consoleScreen) ScrollLogsToBottom() {
	s.do(func() { s.logScroll.ScrollToBottom() })
}

// ----- Header -----

// ShowTab selects tab and shows its title.
func (s *consoleScreen) ShowTab(tab console.Tab, title string) {
	s.do(func() {
		s.shown = tab
		s.title.SetText(title)
		if item, ok := s.tabItems[tab]; ok && s.tabs.Selected() != item {
			s.tabs.Select(item)
		}
	})
}

// SetOperator shows the signed-in account.
func (s *consoleScreen) SetOperator(username, expires string) {
	s.do(func() {
		text := "Signed in as " + username
		if expires != "" {
			text += " (token expires " + expires + ")"
		}
		s.operator.SetText(text)
	})
}

var _ console.View = (*consoleScreen)(nil)
