package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"trivia-quiz-service/internal/domain"
)

// maxTxRetries bounds optimistic retries when concurrent writers touch the same identifier.
const maxTxRetries = 32

// ErrContention is returned when an update keeps losing its WATCH race.
var ErrContention = errors.New("session update contention")

// SessionStore keeps sessions in Redis as JSON blobs, one key per identifier.
// Writes run as WATCH/MULTI transactions on that key, so writers for the same
// identifier are serialized and different identifiers never block each other.
// A zero ttl keeps sessions for as long as Redis keeps the data; a positive
// ttl expires idle sessions and is refreshed on every read and write.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl < 0 {
		ttl = 0
	}
	return &SessionStore{
		client: client,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Create logs the identifier in, adopting a session started by earlier
// actions. It fails only when that session is already logged in.
func (s *SessionStore) Create(ctx context.Context, email string) (domain.Session, error) {
	return s.transact(ctx, email, func(session *domain.Session) error {
		return session.Login(s.now())
	})
}

func (s *SessionStore) Update(ctx context.Context, email string, fn func(*domain.Session)) (domain.Session, error) {
	return s.transact(ctx, email, func(session *domain.Session) error {
		fn(session)
		return nil
	})
}

func (s *SessionStore) Get(ctx context.Context, email string) (domain.Session, bool, error) {
	key := s.key(email)
	var cmd *redis.StringCmd
	if s.ttl > 0 {
		cmd = s.client.GetEx(ctx, key, s.ttl)
	} else {
		cmd = s.client.Get(ctx, key)
	}
	return decodeSession(cmd)
}

// transact loads the session (or a fresh one), applies fn and writes the
// result back, retrying when another writer touched the key first. An error
// from fn aborts without writing.
func (s *SessionStore) transact(ctx context.Context, email string, fn func(*domain.Session) error) (domain.Session, error) {
	key := s.key(email)
	var out domain.Session

	txf := func(tx *redis.Tx) error {
		session, found, err := decodeSession(tx.Get(ctx, key))
		if err != nil {
			return err
		}
		if !found {
			session = domain.NewSession(email, s.now())
		}
		if err := fn(&session); err != nil {
			return err
		}
		data, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("encode session: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		out = session
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		switch {
		case err == nil:
			return out, nil
		case errors.Is(err, redis.TxFailedErr):
			continue
		case errors.Is(err, domain.ErrAlreadyLoggedIn):
			return domain.Session{}, err
		default:
			return domain.Session{}, fmt.Errorf("update session: %w", err)
		}
	}
	return domain.Session{}, ErrContention
}

func decodeSession(cmd *redis.StringCmd) (domain.Session, bool, error) {
	raw, err := cmd.Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Session{}, false, nil
	}
	if err != nil {
		return domain.Session{}, false, fmt.Errorf("load session: %w", err)
	}
	var session domain.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return domain.Session{}, false, fmt.Errorf("decode session: %w", err)
	}
	if session.Answered == nil {
		session.Answered = make(map[int]bool)
	}
	return session, true, nil
}

func (s *SessionStore) key(email string) string {
	return "quiz:session:" + email
}
