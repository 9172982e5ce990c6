package term

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/LunovVladyslav/ws-tutorial/pkg/console"
)

// Output formats.
const (
	FormatTable = "table"
	FormatYAML  = "yaml"
)

// Renderer draws console views as text. Data goes to Out; status lines
// (titles, progress, the signed-in banner) go to Status.
type Renderer struct {
	Out    io.Writer
	Status io.Writer
	Format string

	logText string
}

// NewRenderer creates a renderer. An empty format means FormatTable.
func NewRenderer(out, status io.Writer, format string) (*Renderer, error) {
	switch format {
	case "", FormatTable:
		format = FormatTable
	case FormatYAML:
	default:
		return nil, fmt.Errorf("term: unknown output format %q (valid: table, yaml)", format)
	}
	return &Renderer{Out: out, Status: status, Format: format}, nil
}

func (r *Renderer) asYAML() bool { return r.Format == FormatYAML }

// ShowTab prints the section title.
func (r *Renderer) ShowTab(_ console.Tab, title string) {
	if r.asYAML() {
		return
	}
	fmt.Fprintln(r.Status, TitleStyle.Render(title))
}

type userYAML struct {
	ID          int64  `yaml:"id"`
	Username    string `yaml:"username"`
	Role        string `yaml:"role"`
	Status      string `yaml:"status"`
	BannedUntil string `yaml:"banned_until,omitempty"`
}

// RenderUsers prints the users table.
func (r *Renderer) RenderUsers(rows []console.UserRow) {
	if r.asYAML() {
		out := make([]userYAML, 0, len(rows))
		for _, row := range rows {
			out = append(out, userYAML{
				ID:          row.ID,
				Username:    row.Username,
				Role:        row.Role.String(),
				Status:      row.Status,
				BannedUntil: row.BannedUntil,
			})
		}
		r.writeYAML(map[string]any{"users": out})
		return
	}

	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		status := row.Status
		if row.Banned {
			status += " until " + row.BannedUntil
		}
		cells = append(cells, []string{strconv.FormatInt(row.ID, 10), row.Username, status, actionLabels(row.Actions)})
	}
	r.writeTable([]string{"ID", "USERNAME", "STATUS", "ACTIONS"}, cells, 2)
}

// SetBanTarget is a no-op: adminctl takes the target on the command line.
func (r *Renderer) SetBanTarget(int64, string) {}

// ResetCreateForm is a no-op: there is no form to clear.
func (r *Renderer) ResetCreateForm() {}

// RenderPeers prints one card per connection.
func (r *Renderer) RenderPeers(list console.PeerList) {
	if r.asYAML() {
		out := make([]map[string]string, 0, len(list.Cards))
		for _, c := range list.Cards {
			out = append(out, map[string]string{"id": c.ConnID, "username": c.Label})
		}
		r.writeYAML(map[string]any{"peers": out})
		return
	}
	if list.Empty != "" {
		fmt.Fprintln(r.Out, MutedStyle.Render(list.Empty))
		return
	}
	for _, c := range list.Cards {
		lines := []string{
			InfoKeyStyle.Render("ID:") + c.ConnID,
			InfoKeyStyle.Render("Username:") + c.Label,
		}
		if c.IP != "" {
			lines = append(lines, InfoKeyStyle.Render("IP:")+c.IP)
		}
		if c.Platform != "" {
			lines = append(lines, InfoKeyStyle.Render("Platform:")+c.Platform)
		}
		fmt.Fprintln(r.Out, CardStyle.Render(strings.Join(lines, "\n")))
	}
}

type reportYAML struct {
	ID       int64  `yaml:"id"`
	Reporter string `yaml:"reporter"`
	Context  string `yaml:"context"`
	Reason   string `yaml:"reason"`
	Time     string `yaml:"time"`
	Status   string `yaml:"status"`
}

// RenderReports prints the reports table.
func (r *Renderer) RenderReports(rows []console.ReportRow) {
	if r.asYAML() {
		out := make([]reportYAML, 0, len(rows))
		for _, row := range rows {
			out = append(out, reportYAML{
				ID:       row.ID,
				Reporter: row.Reporter,
				Context:  row.Context,
				Reason:   row.Reason,
				Time:     row.Time,
				Status:   string(row.Status),
			})
		}
		r.writeYAML(map[string]any{"reports": out})
		return
	}

	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		action := actionLabels(row.Actions)
		if action == "" {
			action = "-"
		}
		cells = append(cells, []string{
			strconv.FormatInt(row.ID, 10), row.Reporter, row.Context, row.Reason, row.Time, string(row.Status), action,
		})
	}
	r.writeTable([]string{"ID", "REPORTER", "CONTEXT", "REASON", "TIME", "STATUS", "ACTIONS"}, cells, 5)
}

// SetBadge prints the pending count, or nothing when it is hidden.
func (r *Renderer) SetBadge(count int, visible bool) {
	if !visible || r.asYAML() {
		return
	}
	fmt.Fprintln(r.Status, "Pending "+BadgeStyle.Render(strconv.Itoa(count)))
}

// SetLogText keeps the text; the placeholder goes to the status stream.
func (r *Renderer) SetLogText(text string) {
	if text == console.MsgLoadingLogs {
		fmt.Fprintln(r.Status, MutedStyle.Render(text))
		return
	}
	r.logText = text
	if strings.HasPrefix(text, "Error loading logs: ") {
		fmt.Fprintln(r.Status, ErrorTextStyle.Render(text))
	}
}

// ScrollLogsToBottom prints the logs. A terminal already ends at the bottom.
func (r *Renderer) ScrollLogsToBottom() {
	fmt.Fprint(r.Out, r.logText)
	if !strings.HasSuffix(r.logText, "\n") {
		fmt.Fprintln(r.Out)
	}
}

// SetOperator prints the signed-in banner.
func (r *Renderer) SetOperator(username, expires string) {
	if r.asYAML() {
		return
	}
	line := "Signed in as " + username
	if expires != "" {
		line += MutedStyle.Render(" (token expires " + expires + ")")
	}
	fmt.Fprintln(r.Status, line)
}

// SetBusy prints a progress line when a login starts.
func (r *Renderer) SetBusy(busy bool) {
	if busy {
		fmt.Fprintln(r.Status, MutedStyle.Render("Signing in..."))
	}
}

// ShowError prints a login error.
func (r *Renderer) ShowError(msg string) {
	fmt.Fprintln(r.Status, ErrorTextStyle.Render(msg))
}

// HideError is a no-op: printed lines stay printed.
func (r *Renderer) HideError() {}

func (r *Renderer) writeTable(headers []string, rows [][]string, statusCol int) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(MutedStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return HeaderCellStyle
			}
			if col == statusCol && row >= 0 && row < len(rows) {
				return statusStyle(firstWord(rows[row][col])).Padding(0, 1)
			}
			return CellStyle
		})
	fmt.Fprintln(r.Out, t.Render())
}

func (r *Renderer) writeYAML(v any) {
	enc := yaml.NewEncoder(r.Out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(r.Status, ErrorTextStyle.Render("encode yaml: "+err.Error()))
	}
	_ = enc.Close()
}

func actionLabels(actions []console.Action) string {
	labels := make([]string, 0, len(actions))
	for _, a := range actions {
		labels = append(labels, a.Label)
	}
	return strings.Join(labels, ", ")
}

func firstWord(s string) string {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i]
	}
	return s
}

var (
	_ console.View      = (*Renderer)(nil)
	_ console.LoginView = (*Renderer)(nil)
)
