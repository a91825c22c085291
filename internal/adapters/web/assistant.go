package web

import (
	"context"
	"net/http"
	"sync"
	"time"

	"partsdesk/internal/core"

	"github.com/google/uuid"
)

const pendingTTL = 15 * time.Minute

// pendingProposal is a restock proposal awaiting user confirmation.
type pendingProposal struct {
	Proposal  core.RestockProposal
	CreatedAt time.Time
}

// pendingStore is a thread-safe in-memory store with TTL expiry.
type pendingStore struct {
	mu        sync.Mutex
	proposals map[string]pendingProposal
}

func newPendingStore() *pendingStore {
	return &pendingStore{proposals: make(map[string]pendingProposal)}
}

func (s *pendingStore) put(token string, p pendingProposal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proposals[token] = p
}

func (s *pendingStore) get(token string) (pendingProposal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.proposals[token]
	if !ok {
		return pendingProposal{}, false
	}
	if time.Since(p.CreatedAt) > pendingTTL {
		delete(s.proposals, token)
		return pendingProposal{}, false
	}
	return p, true
}

func (s *pendingStore) delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.proposals, token)
}

// startPurge starts a background goroutine that evicts expired entries every 5 minutes.
func (s *pendingStore) startPurge(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.mu.Lock()
				for token, p := range s.proposals {
					if time.Since(p.CreatedAt) > pendingTTL {
						delete(s.proposals, token)
					}
				}
				s.mu.Unlock()
			}
		}
	}()
}

// apiInterpretRestock handles POST /api/assistant/interpret.
// Body: { text }. Returns either a clarification question or a proposal with
// a confirmation token; nothing is ordered until the token is confirmed.
func (h *Handler) apiInterpretRestock(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.Text == "" {
		writeError(w, r, "text is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	result, err := h.svc.InterpretRestock(r.Context(), body.Text)
	if err != nil {
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}

	type response struct {
		IsClarification bool                  `json:"is_clarification"`
		Clarification   string                `json:"clarification,omitempty"`
		Proposal        *core.RestockProposal `json:"proposal,omitempty"`
		Token           string                `json:"token,omitempty"`
	}

	if result.IsClarification {
		writeJSON(w, response{IsClarification: true, Clarification: result.ClarificationMessage})
		return
	}

	token := uuid.NewString()
	h.pending.put(token, pendingProposal{Proposal: *result.Proposal, CreatedAt: time.Now()})
	writeJSON(w, response{Proposal: result.Proposal, Token: token})
}

// apiConfirmRestock handles POST /api/assistant/confirm.
// Body: { token }. Commits the pending proposal as a purchase order.
func (h *Handler) apiConfirmRestock(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token string `json:"token"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	pending, ok := h.pending.get(body.Token)
	if !ok {
		writeError(w, r, "proposal expired or not found", "NOT_FOUND", http.StatusNotFound)
		return
	}

	result, err := h.svc.CommitRestockProposal(r.Context(), pending.Proposal)
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	h.pending.delete(body.Token)
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result.Order)
}
