package model

// ReportStatus is the moderation state of a report.
// Reports only ever move from pending to resolved.
type ReportStatus string

const (
	ReportPending  ReportStatus = "PENDING"
	ReportResolved ReportStatus = "RESOLVED"
)

// Report is a flagged-content record submitted by a user.
type Report struct {
	ID               int64        `json:"id" yaml:"id"`
	ReporterUsername string       `json:"reporterUsername" yaml:"reporter"`
	ReportedContext  string       `json:"reportedContext" yaml:"context"` // username or message id
	Reason           string       `json:"reason" yaml:"reason"`
	Timestamp        Timestamp    `json:"timestamp" yaml:"timestamp"`
	Status           ReportStatus `json:"status" yaml:"status"`
}

// Pending returns true while the report awaits an operator.
func (r *Report) Pending() bool {
	return r.Status == ReportPending
}

// PendingCount counts reports still awaiting resolution.
func PendingCount(reports []Report) int {
	n := 0
	for i := range reports {
		if reports[i].Pending() {
			n++
		}
	}
	return n
}
