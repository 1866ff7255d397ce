package bot

import "time"

type sessionState int

const (
	stateIdle sessionState = iota
	stateAwaitingName
	stateAwaitingMealDate
	stateAwaitingCanteen
)

// session is one user's conversation step plus scratch fields. Nothing
// reaches the store until the final commit, so dropping a session is
// always safe.
type session struct {
	state    sessionState
	userID   string
	fullName string
	mealDate time.Time
	touched  time.Time
}

// getSession returns the live session for a handle. A session idle for
// longer than the configured TTL is evicted here, so abandoned
// conversations do not accumulate.
func (b *Bot) getSession(telegramID int64) *session {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.sessions[telegramID]
	if !ok {
		return nil
	}
	if b.cfg.SessionTTL > 0 && b.now().Sub(s.touched) > b.cfg.SessionTTL {
		delete(b.sessions, telegramID)
		return nil
	}
	s.touched = b.now()
	return s
}

func (b *Bot) setSession(telegramID int64, s *session) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s.touched = b.now()
	b.sessions[telegramID] = s
}

func (b *Bot) clearSession(telegramID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.sessions, telegramID)
}
