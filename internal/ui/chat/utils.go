// Copyright (c) 2025 Bioterm Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bioterm/bioterm/internal/backend"
)

// noticeDuration is how long transient notices like "Copied!" stay visible.
const noticeDuration = time.Second

// probeTimeout bounds the startup reachability check. It is much shorter
// than the chat timeout: the probe only confirms something is listening.
const probeTimeout = 5 * time.Second

// probeContext returns the context for the startup reachability probe.
func probeContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), probeTimeout)
}

// requestContext returns the context for one chat request.
func requestContext(client *backend.Client) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), client.Timeout())
}

// writeClipboard copies text to the system clipboard.
func writeClipboard(text string) error {
	return clipboard.WriteAll(text)
}

// expireNotice schedules a notice to clear after noticeDuration.
func expireNotice(seq int) tea.Cmd {
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return noticeExpiredMsg{Seq: seq}
	})
}

// friendlyError turns a request failure into a transcript notice.
func friendlyError(err error) string {
	var clientErr *backend.ClientError
	if errors.As(err, &clientErr) {
		switch clientErr.Type {
		case backend.ErrTypeTimeout:
			return "Request timed out. The backend may be busy with a slow upstream lookup; try again."
		case backend.ErrTypeUnreachable:
			return "Could not reach the backend. Check that it is running and try again."
		case backend.ErrTypeBadStatus:
			return "The backend returned an error: " + clientErr.Message
		case backend.ErrTypeInvalidResponse:
			return "The backend returned a response that could not be parsed."
		}
	}
	return "Request failed: " + err.Error()
}
