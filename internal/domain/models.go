package domain

import (
	"sort"
	"time"
)

// Question is an immutable catalog entry. IDs are dense, starting at 0.
type Question struct {
	ID     int    `json:"id"`
	Text   string `json:"text"`
	Answer string `json:"answer"`
}

// Session is the per-identifier quiz progress.
type Session struct {
	Email     string       `json:"email"`
	Cursor    int          `json:"cursor"`
	Score     int          `json:"score"`
	Answered  map[int]bool `json:"answered"`
	LoggedIn  bool         `json:"loggedIn"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// NewSession returns a session positioned at the first question. It is not
// logged in until Login runs; actions before login create sessions this way.
func NewSession(email string, now time.Time) Session {
	return Session{
		Email:     email,
		Answered:  make(map[int]bool),
		UpdatedAt: now,
	}
}

// Login marks the session logged in, keeping any progress made before.
// It returns ErrAlreadyLoggedIn when the session is already logged in.
func (s *Session) Login(now time.Time) error {
	if s.LoggedIn {
		return ErrAlreadyLoggedIn
	}
	s.LoggedIn = true
	s.UpdatedAt = now
	return nil
}

// Reset rewinds cursor, score and credited answers. Login state is kept.
func (s *Session) Reset(now time.Time) {
	s.Cursor = 0
	s.Score = 0
	s.Answered = make(map[int]bool)
	s.UpdatedAt = now
}

// Credit records a correct answer for questionID. It reports false when the
// question was already credited. The cursor moves only when questionID is the
// question currently due.
func (s *Session) Credit(questionID, total int, now time.Time) bool {
	if s.Answered == nil {
		s.Answered = make(map[int]bool)
	}
	if s.Answered[questionID] {
		return false
	}
	s.Answered[questionID] = true
	s.Score++
	if questionID == s.Cursor {
		s.Advance(total)
	}
	s.UpdatedAt = now
	return true
}

// Advance moves the cursor forward by one, never past total.
func (s *Session) Advance(total int) {
	if s.Cursor < total {
		s.Cursor++
	}
}

// Exhausted reports whether every question has been consumed.
func (s Session) Exhausted(total int) bool {
	return s.Cursor >= total
}

// Clone returns a deep copy safe to hand out of a store.
func (s Session) Clone() Session {
	out := s
	out.Answered = make(map[int]bool, len(s.Answered))
	for id, ok := range s.Answered {
		out.Answered[id] = ok
	}
	return out
}

// AnsweredIDs lists credited question ids in ascending order.
func (s Session) AnsweredIDs() []int {
	ids := make([]int, 0, len(s.Answered))
	for id, ok := range s.Answered {
		if ok {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// AnswerResult summarizes the outcome of a submission.
type AnswerResult struct {
	QuestionID int  `json:"questionId"`
	Correct    bool `json:"correct"`
	Awarded    bool `json:"awarded"`
	TotalScore int  `json:"totalScore"`
}
