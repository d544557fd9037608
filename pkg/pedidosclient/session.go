package pedidosclient

import (
	"context"
	"sync"
	"time"

	"github.com/sangkips/pedidos-api/pkg/orderview"
)

// Session keeps the last successfully fetched order list together with the
// local view state. Every mutation is followed by a full refresh; a failed
// call leaves the snapshot as it was.
type Session struct {
	client *Client

	mu      sync.RWMutex
	records []orderview.Record
	state   orderview.ViewState
	loaded  bool
}

// NewSession creates a session with an empty snapshot
func NewSession(client *Client) *Session {
	return &Session{client: client, state: orderview.NewViewState()}
}

// Refresh replaces the snapshot with the server's order list
func (s *Session) Refresh(ctx context.Context) error {
	records, err := s.client.Orders(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.records = records
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// Loaded reports whether a refresh has succeeded at least once
func (s *Session) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Records returns a copy of the snapshot
func (s *Session) Records() []orderview.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]orderview.Record(nil), s.records...)
}

// State returns the current view state
func (s *Session) State() orderview.ViewState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SetState replaces the view state
func (s *Session) SetState(state orderview.ViewState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// View computes the current view over the snapshot
func (s *Session) View() orderview.View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return orderview.Compute(s.records, s.state)
}

// Add creates an order and refreshes
func (s *Session) Add(ctx context.Context, r orderview.Record) error {
	if _, err := s.client.CreateOrder(ctx, r); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// Update replaces order id and refreshes
func (s *Session) Update(ctx context.Context, id string, r orderview.Record) error {
	if _, err := s.client.UpdateOrder(ctx, id, r); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// Delete removes order id and refreshes
func (s *Session) Delete(ctx context.Context, id string) error {
	if err := s.client.DeleteOrder(ctx, id); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// SaveSummary posts the summary of the current visible set. A failure is
// returned to the caller and changes nothing locally.
func (s *Session) SaveSummary(ctx context.Context, idempotencyKey string) (orderview.SavedSummary, error) {
	view := s.View()
	payload := orderview.BuildSummaryPayload(view.Visible, view.Totals, s.State().Adjustments)
	return s.client.SaveSummary(ctx, payload, idempotencyKey)
}

// Receipt renders the receipt of the current visible set and its share link
func (s *Session) Receipt(f orderview.ReceiptFormatter, shareBaseURL, phone string, now time.Time) (text, shareURL string) {
	view := s.View()
	text = f.Format(view.Visible, view.Totals, s.State().Adjustments, now)
	return text, orderview.ShareURL(shareBaseURL, phone, text)
}
