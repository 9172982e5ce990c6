package console

import (
	"context"
	"log/slog"

	"github.com/LunovVladyslav/ws-tutorial/pkg/model"
)

// MsgResolveFailed is alerted when a report cannot be resolved.
const MsgResolveFailed = "Failed to resolve report"

// ReportRow is one rendered line of the reports table.
type ReportRow struct {
	ID       int64
	Reporter string
	Context  string
	Reason   string
	Time     string
	Status   model.ReportStatus
	Actions  []Action // Resolve, only while pending
}

// ReportRows builds the table rows.
func ReportRows(reports []model.Report) []ReportRow {
	rows := make([]ReportRow, 0, len(reports))
	for i := range reports {
		r := &reports[i]
		row := ReportRow{
			ID:       r.ID,
			Reporter: r.ReporterUsername,
			Context:  r.ReportedContext,
			Reason:   r.Reason,
			Time:     r.Timestamp.Display(),
			Status:   r.Status,
		}
		if r.Pending() {
			row.Actions = []Action{{Name: ActionReportResolve, Label: "Resolve", ID: r.ID}}
		}
		rows = append(rows, row)
	}
	return rows
}

// ReportsView lists reports and keeps the pending badge current.
type ReportsView struct {
	api     AdminAPI
	prompt  Prompter
	render  ReportsRenderer
	pending int
}

// NewReportsView creates the reports view.
func NewReportsView(client AdminAPI, prompt Prompter, render ReportsRenderer) *ReportsView {
	return &ReportsView{api: client, prompt: prompt, render: render}
}

// Pending returns the badge count from the last successful load.
func (v *ReportsView) Pending() int {
	return v.pending
}

// Load fetches the reports, renders them and recomputes the badge, which is
// hidden exactly when nothing is pending. Failures are only logged.
func (v *ReportsView) Load(ctx context.Context) {
	reports, err := v.api.ListReports(ctx)
	if err != nil {
		slog.Error("load reports", "err", err)
		return
	}
	v.render.RenderReports(ReportRows(reports))
	v.pending = model.PendingCount(reports)
	v.render.SetBadge(v.pending, v.pending > 0)
}

// Resolve marks a report resolved and reloads the list.
func (v *ReportsView) Resolve(ctx context.Context, id int64) {
	if err := v.api.ResolveReport(ctx, id); err != nil {
		slog.Error("resolve report", "id", id, "err", err)
		v.prompt.Alert(MsgResolveFailed)
		return
	}
	slog.Info("report resolved", "id", id)
	v.Load(ctx)
}
