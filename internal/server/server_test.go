// Copyright (c) 2025 Bioterm Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer() *Server {
	return New(0)
}

func postChat(t *testing.T, s *Server, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(data))
	w := httptest.NewRecorder()
	s.http.Handler.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.http.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ok") {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestChatReturnsReply(t *testing.T) {
	s := newTestServer()
	w := postChat(t, s, ChatRequest{Messages: []ChatMessage{
		{Role: "user", Content: "what is TP53?"},
	}})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp ChatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Reply == "" {
		t.Error("expected a reply")
	}
	if resp.HTML != "" {
		t.Errorf("unexpected HTML: %q", resp.HTML)
	}
}

func TestChatReturnsHTMLForTableQuestions(t *testing.T) {
	s := newTestServer()
	w := postChat(t, s, ChatRequest{Messages: []ChatMessage{
		{Role: "user", Content: "show me the results table"},
	}})

	var resp ChatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !strings.Contains(resp.HTML, "<table>") {
		t.Errorf("HTML = %q, want a table fragment", resp.HTML)
	}
	if resp.Reply == "" {
		t.Error("HTML responses still carry an intro reply")
	}
}

func TestChatRejectsBadRequests(t *testing.T) {
	s := newTestServer()

	// GET is not allowed.
	req := httptest.NewRequest(http.MethodGet, "/chat", nil)
	w := httptest.NewRecorder()
	s.http.Handler.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /chat status = %d", w.Code)
	}

	// Invalid JSON.
	req = httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader("{not json"))
	w = httptest.NewRecorder()
	s.http.Handler.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad JSON status = %d", w.Code)
	}

	// Empty message list.
	w = postChat(t, s, ChatRequest{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty messages status = %d", w.Code)
	}
}

func TestChatRejectsOversizedHistory(t *testing.T) {
	s := newTestServer()
	messages := make([]ChatMessage, MaxMessageCount+1)
	for i := range messages {
		messages[i] = ChatMessage{Role: "user", Content: "x"}
	}
	w := postChat(t, s, ChatRequest{Messages: messages})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRecoverMiddleware(t *testing.T) {
	h := chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), recoverPanics)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}
