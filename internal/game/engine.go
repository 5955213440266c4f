// Package game drives the per-user conversation for the chance game: pay the
// entry fee, pick a number in {1,2,3}, win immediately or choose to retry.
// The engine owns the session table and the ledger and commits every
// money-moving event to the store before treating it as complete.
package game

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/kiprotich-dev/bahatibot/internal/ledger"
	"github.com/kiprotich-dev/bahatibot/internal/store"
)

const (
	msgWelcome       = "Welcome to the Game of Chance! Please enter your PIN to pay KES 50."
	msgPayPrompt     = "Please enter your PIN to pay KES 50."
	msgPaid          = "Payment received! Choose your lucky number (1, 2, or 3):"
	msgInvalidNumber = "Invalid number. Please choose 1, 2, or 3."
	msgWin           = "🎉 Congratulations! You won!"
	msgLose          = "Sorry, you didn't win. Do you want to play again? (yes/no)"
	msgFarewell      = "Thanks for playing!"
	msgCancelled     = "Game cancelled."
	msgFailure       = "Something went wrong, please try again later."
)

// Rand is the injectable random source for the winning-number draw and the
// disbursement sampling. *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Reply is one outbound message. Delivery is the transport's job; UserID
// names the user the text concerns, which for reward announcements may
// differ from the user whose event produced it.
type Reply struct {
	UserID string
	Text   string
}

// Engine routes inbound events through the session state machine. One mutex
// serializes event handling, so ledger mutation and the save that commits it
// never interleave between users.
type Engine struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ledger   *ledger.Ledger
	store    store.Store
	rng      Rand
}

// New builds an engine from the persisted state. Users with a recorded
// payment come back with Paid set but an idle conversation.
func New(ctx context.Context, st store.Store, rng Rand) (*Engine, error) {
	paid, ls, err := st.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	l := ledger.New()
	l.Restore(ls)

	sessions := make(map[string]*Session, len(paid))
	for id, p := range paid {
		sessions[id] = &Session{UserID: id, Paid: p, State: StateIdle}
	}

	return &Engine{
		sessions: sessions,
		ledger:   l,
		store:    st,
		rng:      rng,
	}, nil
}

// Ledger exposes the ledger for read-only reporting.
func (e *Engine) Ledger() *ledger.Ledger {
	return e.ledger
}

// Sessions returns a copy of the session table, ordered by user ID.
func (e *Engine) Sessions() []Session {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Session, 0, len(e.sessions))
	for _, s := range e.sessions {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

// HandleCommand processes /start and /cancel.
func (e *Engine) HandleCommand(ctx context.Context, name, userID string) []Reply {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch name {
	case "start":
		e.sessions[userID] = &Session{UserID: userID, State: StateAwaitingPin}
		return []Reply{{userID, msgWelcome}}
	case "cancel":
		s, ok := e.sessions[userID]
		if !ok || s.State == StateIdle {
			return nil
		}
		s.State = StateIdle
		return []Reply{{userID, msgCancelled}}
	}
	return nil
}

// HandleText processes a free-text message for the user's current state.
// Messages outside a conversation are ignored.
func (e *Engine) HandleText(ctx context.Context, userID, text string) []Reply {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sessions[userID]
	if !ok {
		return nil
	}

	switch s.State {
	case StateAwaitingPin:
		return e.handlePin(ctx, s)
	case StateAwaitingNumber:
		return e.handleNumber(ctx, s, text)
	case StateAwaitingReplay:
		return e.handleReplay(s, text)
	default:
		return nil
	}
}

// handlePin treats any input as a confirmed charge; the payment backend is
// external and idempotent. The payment is not committed until the save
// succeeds: on failure both the paid flag and the ledger credit roll back
// together.
func (e *Engine) handlePin(ctx context.Context, s *Session) []Reply {
	prevPaid := s.Paid
	prevLedger := e.ledger.Snapshot()

	s.Paid = true
	e.ledger.RecordPayment(s.UserID)

	if err := e.save(ctx); err != nil {
		s.Paid = prevPaid
		e.ledger.Restore(prevLedger)
		log.Printf("Failed to persist payment for user %s: %v", s.UserID, err)
		return []Reply{{s.UserID, msgFailure}}
	}

	s.State = StateAwaitingNumber
	return []Reply{{s.UserID, msgPaid}}
}

func (e *Engine) handleNumber(ctx context.Context, s *Session, text string) []Reply {
	chosen, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || chosen < 1 || chosen > 3 {
		return []Reply{{s.UserID, msgInvalidNumber}}
	}

	winning := 1 + e.rng.Intn(3)
	if chosen != winning {
		s.State = StateAwaitingReplay
		return []Reply{{s.UserID, msgLose}}
	}

	s.State = StateIdle
	replies := []Reply{{s.UserID, msgWin}}

	prevLedger := e.ledger.Snapshot()
	d, ok := e.ledger.TryDisburse(e.rng)
	if !ok {
		return replies
	}
	if err := e.save(ctx); err != nil {
		e.ledger.Restore(prevLedger)
		log.Printf("Failed to persist disbursement: %v", err)
		return append(replies, Reply{s.UserID, msgFailure})
	}
	for _, a := range d.Awards {
		replies = append(replies, Reply{
			UserID: a.UserID,
			Text:   fmt.Sprintf("User %s receives KES %d as a reward!", a.UserID, a.Amount),
		})
	}
	return replies
}

func (e *Engine) handleReplay(s *Session, text string) []Reply {
	if strings.EqualFold(strings.TrimSpace(text), "yes") {
		s.State = StateAwaitingPin
		return []Reply{{s.UserID, msgPayPrompt}}
	}
	s.State = StateIdle
	return []Reply{{s.UserID, msgFarewell}}
}

// Disburse runs a disbursement pass outside the conversation flow, for the
// operator API. Returns ok=false when the pool is below the threshold.
func (e *Engine) Disburse(ctx context.Context) (ledger.Disbursement, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.ledger.Snapshot()
	d, ok := e.ledger.TryDisburse(e.rng)
	if !ok {
		return ledger.Disbursement{}, false, nil
	}
	if err := e.save(ctx); err != nil {
		e.ledger.Restore(prev)
		return ledger.Disbursement{}, false, fmt.Errorf("failed to persist disbursement: %w", err)
	}
	return d, true, nil
}

// Close writes a final snapshot.
func (e *Engine) Close(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.save(ctx)
}

func (e *Engine) save(ctx context.Context) error {
	paid := make(map[string]bool, len(e.sessions))
	for id, s := range e.sessions {
		paid[id] = s.Paid
	}
	return e.store.Save(ctx, paid, e.ledger.Snapshot())
}
