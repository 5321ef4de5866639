// Copyright (c) 2025 Bioterm Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bioterm/bioterm/internal/backend"
	"github.com/bioterm/bioterm/internal/config"
	"github.com/bioterm/bioterm/internal/model"
	"github.com/bioterm/bioterm/internal/storage"
	"github.com/bioterm/bioterm/internal/ui/styles"
)

// newTestModel builds a chat model backed by a throwaway database and a
// clipboard stub, sized so the layout code runs.
func newTestModel(t *testing.T) (Model, *storage.History) {
	t.Helper()

	kv, err := storage.OpenKV(filepath.Join(t.TempDir(), "bioterm.db"))
	if err != nil {
		t.Fatalf("OpenKV: %v", err)
	}
	t.Cleanup(func() { kv.Close() })

	history := storage.NewHistory(kv)

	cfg := config.Default()
	client := backend.NewClient()
	theme := styles.NewThemeDark(true)

	m := New(cfg, history, client, theme)
	m.copyFunc = func(string) error { return nil }
	m.resize(100, 30)
	return m, history
}

func pressEnter(t *testing.T, m Model) Model {
	t.Helper()
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return updated.(Model)
}

// runUntilResponse executes cmd (recursing into batches) until the chat
// response surfaces. Other produced messages, like spinner ticks, are
// discarded.
func runUntilResponse(t *testing.T, cmd tea.Cmd) ChatResponseMsg {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case ChatResponseMsg:
			return msg
		}
	}
	t.Fatal("no chat response was produced")
	return ChatResponseMsg{}
}

func TestSendReplyRoundTrip(t *testing.T) {
	var gotRequest backend.ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(backend.ChatResponse{Reply: "hi there"})
	}))
	defer srv.Close()

	kv, err := storage.OpenKV(filepath.Join(t.TempDir(), "bioterm.db"))
	if err != nil {
		t.Fatalf("OpenKV: %v", err)
	}
	defer kv.Close()

	history := storage.NewHistory(kv)
	client := backend.NewClientWithConfig(&backend.ClientConfig{
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
	})
	m := New(config.Default(), history, client, styles.NewThemeDark(true))
	m.copyFunc = func(string) error { return nil }
	m.resize(100, 30)

	m.input.SetValue("hello")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	if m.State() != StateAwaitingReply {
		t.Fatalf("state = %v, want awaiting-reply", m.State())
	}

	// The user turn is already on disk before the request command runs.
	stored, err := kv.Get(storage.HistoryKey)
	if err != nil {
		t.Fatalf("user turn not persisted before request: %v", err)
	}
	if !strings.Contains(stored, "hello") {
		t.Fatalf("persisted history = %q, want the user turn", stored)
	}

	resp := runUntilResponse(t, cmd)
	if resp.Err != nil {
		t.Fatalf("request failed: %v", resp.Err)
	}
	if len(gotRequest.Messages) != 1 || gotRequest.Messages[0].Content != "hello" {
		t.Fatalf("request messages = %+v, want the single user turn", gotRequest.Messages)
	}

	updated, _ = m.Update(resp)
	m = updated.(Model)

	if m.State() != StateIdle {
		t.Errorf("state = %v, want idle", m.State())
	}
	msgs := history.Conversation().GetHistory()
	if len(msgs) != 2 || msgs[1].Content != "hi there" {
		t.Fatalf("history = %+v, want user turn then assistant reply", msgs)
	}
	stored, err = kv.Get(storage.HistoryKey)
	if err != nil {
		t.Fatalf("assistant turn not persisted: %v", err)
	}
	if !strings.Contains(stored, "hi there") {
		t.Errorf("persisted history = %q, want the assistant turn", stored)
	}
}

func TestSubmitEmptyInputIsNoOp(t *testing.T) {
	m, history := newTestModel(t)

	m.input.SetValue("   ")
	m = pressEnter(t, m)

	if m.State() != StateIdle {
		t.Errorf("state = %v, want idle", m.State())
	}
	if !history.Conversation().IsEmpty() {
		t.Error("empty submit should not append anything")
	}
}

func TestSubmitAppendsUserTurnAndBlocksResend(t *testing.T) {
	m, history := newTestModel(t)

	m.input.SetValue("what is BRCA1?")
	m = pressEnter(t, m)

	if m.State() != StateAwaitingReply {
		t.Fatalf("state = %v, want awaiting-reply", m.State())
	}
	msgs := history.Conversation().GetHistory()
	if len(msgs) != 1 || msgs[0].Role != model.RoleUser {
		t.Fatalf("history = %d messages, want 1 user turn", len(msgs))
	}
	if m.input.Value() != "" {
		t.Error("input should be cleared after submit")
	}

	// A second Enter while the request is in flight must do nothing.
	m.input.SetValue("another question")
	m = pressEnter(t, m)
	if got := history.Conversation().MessageCount(); got != 1 {
		t.Errorf("in-flight submit appended: %d messages, want 1", got)
	}
	if m.input.Value() != "another question" {
		t.Error("blocked submit should leave the input untouched")
	}
}

func TestResponseAppendsReplyThenHTML(t *testing.T) {
	m, history := newTestModel(t)
	m.state = StateAwaitingReply

	updated, _ := m.Update(ChatResponseMsg{Response: &backend.ChatResponse{
		Reply: "Here is a summary.",
		HTML:  "<p>Widget</p>",
	}})
	m = updated.(Model)

	if m.State() != StateIdle {
		t.Errorf("state = %v, want idle", m.State())
	}
	msgs := history.Conversation().GetHistory()
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].IsHTML || msgs[0].Content != "Here is a summary." {
		t.Errorf("first turn = %+v, want plain reply", msgs[0])
	}
	if !msgs[1].IsHTML || msgs[1].Content != "<p>Widget</p>" {
		t.Errorf("second turn = %+v, want HTML turn", msgs[1])
	}
}

func TestResponseErrorBecomesLocalSystemTurn(t *testing.T) {
	m, history := newTestModel(t)
	m.state = StateAwaitingReply

	updated, _ := m.Update(ChatResponseMsg{Err: &backend.ClientError{
		Type:    backend.ErrTypeUnreachable,
		Message: "connection refused",
	}})
	m = updated.(Model)

	if m.State() != StateIdle {
		t.Errorf("state = %v, want idle", m.State())
	}
	msgs := history.Conversation().GetHistory()
	if len(msgs) != 1 || msgs[0].Role != model.RoleSystem {
		t.Fatalf("history = %+v, want one system turn", msgs)
	}
	// Failure notices stay local: nothing persisted, nothing sent upstream.
	if n := len(history.Conversation().PersistedHistory()); n != 0 {
		t.Errorf("persisted %d messages, want 0", n)
	}
	if n := len(history.ContextWindow()); n != 0 {
		t.Errorf("context window has %d messages, want 0", n)
	}
}

func TestResponseEmptyBecomesSystemTurn(t *testing.T) {
	m, history := newTestModel(t)
	m.state = StateAwaitingReply

	updated, _ := m.Update(ChatResponseMsg{Response: &backend.ChatResponse{}})
	m = updated.(Model)

	msgs := history.Conversation().GetHistory()
	if len(msgs) != 1 || msgs[0].Role != model.RoleSystem {
		t.Fatalf("history = %+v, want one system turn", msgs)
	}
	if !strings.Contains(msgs[0].Content, "empty reply") {
		t.Errorf("content = %q, want empty-reply notice", msgs[0].Content)
	}
}

func TestClearHistory(t *testing.T) {
	m, history := newTestModel(t)
	history.Append(model.NewUserMessage("hello"))
	history.Append(model.NewAssistantMessage("hi"))

	cmd := m.clearHistory()
	if cmd == nil {
		t.Fatal("clearHistory should schedule a notice")
	}
	if !history.Conversation().IsEmpty() {
		t.Error("history not cleared")
	}
	if len(m.codeBlocks) != 0 {
		t.Error("code block registry not cleared")
	}
}

func TestClearDuringFlightDropsLateReply(t *testing.T) {
	m, history := newTestModel(t)

	m.input.SetValue("what is BRCA1?")
	m = pressEnter(t, m)
	if m.State() != StateAwaitingReply {
		t.Fatalf("state = %v, want awaiting-reply", m.State())
	}
	staleSeq := m.sendSeq

	// Clearing mid-flight abandons the pending cycle.
	m.clearHistory()
	if m.State() != StateIdle {
		t.Errorf("state after clear = %v, want idle", m.State())
	}

	// The late reply must not land on the fresh history.
	updated, _ := m.Update(ChatResponseMsg{
		Response: &backend.ChatResponse{Reply: "stale answer"},
		Seq:      staleSeq,
	})
	m = updated.(Model)
	if !history.Conversation().IsEmpty() {
		t.Fatalf("stale reply landed on cleared history: %+v", history.Conversation().GetHistory())
	}

	// A fresh cycle still works after the drop.
	m.input.SetValue("new question")
	m = pressEnter(t, m)
	updated, _ = m.Update(ChatResponseMsg{
		Response: &backend.ChatResponse{Reply: "fresh answer"},
		Seq:      m.sendSeq,
	})
	m = updated.(Model)
	msgs := history.Conversation().GetHistory()
	if len(msgs) != 2 || msgs[1].Content != "fresh answer" {
		t.Fatalf("history = %+v, want new question and fresh answer", msgs)
	}
}

func TestCodeBlockRegistryIsStableAcrossRefreshes(t *testing.T) {
	m, history := newTestModel(t)
	history.Append(model.NewAssistantMessage(
		"Run this:\n```python\nprint('a')\n```\nand then:\n```bash\necho b\n```\n"))

	m.refreshTranscript()
	m.refreshTranscript()

	blocks := m.CodeBlocks()
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if blocks[0].Language != "python" || blocks[1].Language != "bash" {
		t.Errorf("languages = %q, %q", blocks[0].Language, blocks[1].Language)
	}
}

func TestCopyCodeBlock(t *testing.T) {
	m, history := newTestModel(t)
	history.Append(model.NewAssistantMessage("```r\nlibrary(limma)\n```\n"))
	m.refreshTranscript()

	var copied string
	m.copyFunc = func(s string) error {
		copied = s
		return nil
	}

	if cmd := m.copyCodeBlock(1); cmd == nil {
		t.Fatal("copyCodeBlock should schedule a notice")
	}
	if copied != "library(limma)" {
		t.Errorf("copied %q, want the block body", copied)
	}

	if m.copyCodeBlock(99) == nil {
		t.Error("out-of-range index should still produce a notice")
	}
	if copied != "library(limma)" {
		t.Error("out-of-range copy should not touch the clipboard")
	}
}

func TestCopyLastReply(t *testing.T) {
	m, history := newTestModel(t)

	var copied string
	m.copyFunc = func(s string) error {
		copied = s
		return nil
	}

	m.copyLastReply()
	if copied != "" {
		t.Error("copy with no assistant turn should be a no-op")
	}

	history.Append(model.NewUserMessage("q"))
	history.Append(model.NewAssistantMessage("first"))
	history.Append(model.NewAssistantMessage("second"))

	m.copyLastReply()
	if copied != "second" {
		t.Errorf("copied %q, want the most recent reply", copied)
	}
}

func TestCopyFailureShowsNotice(t *testing.T) {
	m, history := newTestModel(t)
	history.Append(model.NewAssistantMessage("reply"))
	m.copyFunc = func(string) error { return errors.New("no clipboard") }

	m.copyLastReply()
	if !strings.Contains(m.statusBar.Notice, "Copy failed") {
		t.Errorf("notice = %q, want copy failure", m.statusBar.Notice)
	}
}

func TestNoticeExpiryIsSequenceGuarded(t *testing.T) {
	m, _ := newTestModel(t)

	m.setNotice("first")
	staleSeq := m.noticeSeq
	m.setNotice("second")

	updated, _ := m.Update(noticeExpiredMsg{Seq: staleSeq})
	m = updated.(Model)
	if m.statusBar.Notice != "second" {
		t.Errorf("stale expiry cleared the notice: %q", m.statusBar.Notice)
	}

	updated, _ = m.Update(noticeExpiredMsg{Seq: m.noticeSeq})
	m = updated.(Model)
	if m.statusBar.Notice != "" {
		t.Errorf("current expiry did not clear the notice: %q", m.statusBar.Notice)
	}
}

func TestSlashCommands(t *testing.T) {
	m, history := newTestModel(t)

	m.input.SetValue("/help")
	m = pressEnter(t, m)
	msgs := history.Conversation().GetHistory()
	if len(msgs) != 1 || msgs[0].Role != model.RoleSystem {
		t.Fatalf("history = %+v, want one system turn with help text", msgs)
	}
	if !strings.Contains(msgs[0].Content, "/copy") {
		t.Error("help text should list /copy")
	}

	m.input.SetValue("/bogus")
	m = pressEnter(t, m)
	if !strings.Contains(m.statusBar.Notice, "Unknown command") {
		t.Errorf("notice = %q, want unknown-command hint", m.statusBar.Notice)
	}

	m.input.SetValue("/clear")
	m = pressEnter(t, m)
	if !history.Conversation().IsEmpty() {
		t.Error("/clear did not clear the history")
	}
}

func TestUnreachableBackendShowsSystemTurn(t *testing.T) {
	m, history := newTestModel(t)

	updated, _ := m.Update(ReachabilityMsg{OK: false, Err: errors.New("refused")})
	m = updated.(Model)

	msgs := history.Conversation().GetHistory()
	if len(msgs) != 1 || msgs[0].Role != model.RoleSystem {
		t.Fatalf("history = %+v, want one system turn", msgs)
	}
	if n := len(history.Conversation().PersistedHistory()); n != 0 {
		t.Errorf("persisted %d messages, want 0", n)
	}
}

func TestViewBeforeFirstResize(t *testing.T) {
	m, history := newTestModel(t)
	_ = history

	m.ready = false
	if got := m.View(); got != "Loading..." {
		t.Errorf("View() before resize = %q", got)
	}
}

func TestStateString(t *testing.T) {
	if StateIdle.String() != "idle" {
		t.Errorf("StateIdle = %q", StateIdle.String())
	}
	if StateAwaitingReply.String() != "awaiting-reply" {
		t.Errorf("StateAwaitingReply = %q", StateAwaitingReply.String())
	}
}
