package console

import (
	"context"
	"errors"

	"github.com/LunovVladyslav/ws-tutorial/pkg/api"
)

const (
	MsgLoadingLogs   = "Loading logs..."
	msgLogsErrPrefix = "Error loading logs: "
	msgLogsFailed    = "Failed to load logs"
)

// LogsView shows the server log tail verbatim.
type LogsView struct {
	api    AdminAPI
	render LogsRenderer
}

// NewLogsView creates the logs view.
func NewLogsView(client AdminAPI, render LogsRenderer) *LogsView {
	return &LogsView{api: client, render: render}
}

// Load shows a placeholder, fetches the logs and scrolls to the end.
// Failures replace the text with an inline error.
func (v *LogsView) Load(ctx context.Context) {
	v.render.SetLogText(MsgLoadingLogs)
	text, err := v.api.Logs(ctx)
	if err != nil {
		v.render.SetLogText(LogsError(err))
		return
	}
	v.render.SetLogText(text)
	v.render.ScrollLogsToBottom()
}

// LogsError formats the inline error shown in place of the logs.
func LogsError(err error) string {
	var se *api.StatusError
	if errors.As(err, &se) {
		return msgLogsErrPrefix + msgLogsFailed
	}
	return msgLogsErrPrefix + err.Error()
}
