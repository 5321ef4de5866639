// Copyright (c) 2025 Bioterm Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultPort is the default port for the stub backend.
	DefaultPort = 8000

	// MaxRequestBodySize is the maximum request body size (1MB).
	MaxRequestBodySize = 1 * 1024 * 1024

	// MaxMessageCount is the maximum number of messages in a request.
	MaxMessageCount = 100

	// shutdownTimeout bounds graceful shutdown.
	shutdownTimeout = 5 * time.Second
)

// ============================================================================
// WIRE TYPES
// ============================================================================

// ChatMessage is one turn in the request history.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the POST /chat request body.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// ChatResponse is the POST /chat response body. Reply is markdown text;
// HTML, when present, is a self-contained fragment.
type ChatResponse struct {
	Reply string `json:"reply,omitempty"`
	HTML  string `json:"html,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ============================================================================
// SERVER
// ============================================================================

// Server is the stub backend HTTP server.
type Server struct {
	port int
	http *http.Server
}

// New creates a stub server listening on the given port.
func New(port int) *Server {
	if port <= 0 {
		port = DefaultPort
	}

	s := &Server{port: port}

	mux := http.NewServeMux()
	mux.HandleFunc("/chat", s.handleChat)
	mux.HandleFunc("/health", s.handleHealth)

	s.http = &http.Server{
		Addr:         fmt.Sprintf("127.0.0.1:%d", port),
		Handler:      chain(mux, recoverPanics, logRequests, limitBody),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.http.Addr
}

// ListenAndServe blocks serving requests until Shutdown is called.
func (s *Server) ListenAndServe() error {
	log.Printf("stub backend listening on http://%s", s.http.Addr)
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.http.Shutdown(ctx)
}

// ============================================================================
// HANDLERS
// ============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "messages must not be empty")
		return
	}
	if len(req.Messages) > MaxMessageCount {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("too many messages: maximum is %d", MaxMessageCount))
		return
	}

	last := req.Messages[len(req.Messages)-1]
	writeJSON(w, http.StatusOK, respondTo(last.Content))
}

// respondTo produces a canned response for the given question. Questions
// mentioning tables or results get an HTML fragment so the HTML rendering
// path can be exercised end to end.
func respondTo(question string) ChatResponse {
	lower := strings.ToLower(question)

	if strings.Contains(lower, "table") || strings.Contains(lower, "results") {
		return ChatResponse{
			Reply: "Here are the top variant annotations:",
			HTML: `<div><table>` +
				`<tr><th>Gene</th><th>Variant</th><th>Significance</th></tr>` +
				`<tr><td>BRCA1</td><td>c.68_69delAG</td><td>Pathogenic</td></tr>` +
				`<tr><td>TP53</td><td>p.R175H</td><td>Pathogenic</td></tr>` +
				`</table></div>`,
		}
	}

	if strings.Contains(lower, "code") || strings.Contains(lower, "script") {
		return ChatResponse{
			Reply: "You can load the expression matrix like this:\n\n" +
				"```python\nimport pandas as pd\nexpr = pd.read_csv(\"counts.tsv\", sep=\"\\t\", index_col=0)\n```\n",
		}
	}

	return ChatResponse{
		Reply: fmt.Sprintf("This is a stub reply to: %q\n\n"+
			"Run against a real backend for actual answers.", question),
	}
}

// ============================================================================
// RESPONSE HELPERS
// ============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
