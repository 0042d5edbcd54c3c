package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"trivia-quiz-service/internal/domain"
)

// Response bodies returned on success.
const (
	MsgLoggedIn        = "You have successfully logged in"
	MsgCorrectAnswer   = "Correct answer"
	MsgIncorrectAnswer = "Incorrect answer"
	MsgNoMoreQuestions = "No more questions available"
	MsgReset           = "Your progress has been reset"
)

// SessionRepository abstracts where per-identifier sessions live (in-memory, Redis).
// Implementations must apply Update under exclusive access for the identifier
// and return consistent copies from Get.
type SessionRepository interface {
	// Create logs the identifier in, keeping progress from a session that
	// earlier actions started, or returns domain.ErrAlreadyLoggedIn.
	Create(ctx context.Context, email string) (domain.Session, error)
	// Update runs fn against the session, creating a fresh one first when
	// absent. fn may run more than once and must not have side effects beyond
	// the session and its own locals.
	Update(ctx context.Context, email string, fn func(*domain.Session)) (domain.Session, error)
	Get(ctx context.Context, email string) (domain.Session, bool, error)
}

// ResetPolicy decides what reset does for an identifier without a session.
type ResetPolicy string

const (
	// ResetLogin creates a fresh logged-in session.
	ResetLogin ResetPolicy = "login"
	// ResetNoop succeeds without creating anything.
	ResetNoop ResetPolicy = "noop"
)

// ParseResetPolicy validates a configured policy. Empty selects ResetLogin.
func ParseResetPolicy(raw string) (ResetPolicy, error) {
	switch ResetPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ResetLogin:
		return ResetLogin, nil
	case ResetNoop:
		return ResetNoop, nil
	default:
		return "", fmt.Errorf("unknown reset policy %q", raw)
	}
}

// Options tunes behaviors the observed clients disagree on.
type Options struct {
	Synonyms      domain.SynonymMode
	ResetUnknown  ResetPolicy
	AdvanceOnView bool
	Clock         func() time.Time
}

// DefaultOptions matches the behavior existing clients rely on.
func DefaultOptions() Options {
	return Options{
		Synonyms:      domain.SynonymsCompat,
		ResetUnknown:  ResetLogin,
		AdvanceOnView: true,
	}
}

// QuizService contains the quiz use cases.
type QuizService struct {
	sessions  SessionRepository
	catalog   *Catalog
	evaluator domain.Evaluator
	opts      Options
	now       func() time.Time
}

func NewQuizService(sessions SessionRepository, catalog *Catalog, opts Options) *QuizService {
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	if opts.ResetUnknown == "" {
		opts.ResetUnknown = ResetLogin
	}
	return &QuizService{
		sessions:  sessions,
		catalog:   catalog,
		evaluator: domain.NewEvaluator(opts.Synonyms),
		opts:      opts,
		now:       now,
	}
}

// Catalog exposes the question bank the service was built with.
func (s *QuizService) Catalog() *Catalog {
	return s.catalog
}

// Params is the unordered bag of named request values. url.Values satisfies it.
type Params interface {
	Has(key string) bool
	Get(key string) string
}

// Result is the outcome of a successfully dispatched action.
type Result struct {
	Action domain.Action
	Body   string
}

// Dispatch validates params in a fixed order and runs the named action. The
// first failing check wins and is returned as a *domain.RequestError.
func (s *QuizService) Dispatch(ctx context.Context, params Params) (Result, error) {
	if !params.Has("email") {
		return Result{}, domain.ErrEmailMissing
	}
	if !params.Has("action") {
		return Result{}, domain.ErrActionMissing
	}
	email := params.Get("email")
	if err := domain.ValidateEmail(email); err != nil {
		return Result{}, err
	}
	action, ok := domain.ParseAction(params.Get("action"))
	if !ok {
		return Result{}, domain.ErrInvalidAction
	}

	res := Result{Action: action}
	switch action {
	case domain.ActionLogin:
		if err := s.Login(ctx, email); err != nil {
			return res, err
		}
		res.Body = MsgLoggedIn
	case domain.ActionQuestion:
		q, ok, err := s.NextQuestion(ctx, email)
		if err != nil {
			return res, err
		}
		if !ok {
			res.Body = MsgNoMoreQuestions
		} else {
			res.Body = FormatQuestion(q)
		}
	case domain.ActionAnswer:
		if !params.Has("question_id") {
			return res, domain.ErrQuestionIDMissing
		}
		id, err := parseQuestionID(params.Get("question_id"))
		if err != nil {
			return res, err
		}
		result, err := s.Answer(ctx, email, id, params.Get("answer"))
		if err != nil {
			return res, err
		}
		res.Body = MsgIncorrectAnswer
		if result.Correct {
			res.Body = MsgCorrectAnswer
		}
	case domain.ActionScore:
		score, err := s.Score(ctx, email)
		if err != nil {
			return res, err
		}
		res.Body = FormatScore(score)
	case domain.ActionReset:
		if err := s.Reset(ctx, email); err != nil {
			return res, err
		}
		res.Body = MsgReset
	default:
		return res, fmt.Errorf("unhandled action %v", action)
	}
	return res, nil
}

// Login creates a session for a previously unseen identifier.
func (s *QuizService) Login(ctx context.Context, email string) error {
	_, err := s.sessions.Create(ctx, email)
	if errors.Is(err, domain.ErrAlreadyLoggedIn) {
		return domain.ErrUserLoggedIn
	}
	return err
}

// NextQuestion returns the question at the session cursor, or false once the
// catalog is exhausted. With AdvanceOnView the cursor moves past the returned question.
func (s *QuizService) NextQuestion(ctx context.Context, email string) (domain.Question, bool, error) {
	total := s.catalog.Len()
	if s.opts.AdvanceOnView {
		served := -1
		_, err := s.sessions.Update(ctx, email, func(sess *domain.Session) {
			served = -1
			if sess.Exhausted(total) {
				return
			}
			served = sess.Cursor
			sess.Advance(total)
			sess.UpdatedAt = s.now()
		})
		if err != nil {
			return domain.Question{}, false, err
		}
		if served < 0 {
			return domain.Question{}, false, nil
		}
		q, ok := s.catalog.Question(served)
		return q, ok, nil
	}

	sess, err := s.snapshot(ctx, email)
	if err != nil {
		return domain.Question{}, false, err
	}
	if sess.Exhausted(total) {
		return domain.Question{}, false, nil
	}
	q, ok := s.catalog.Question(sess.Cursor)
	return q, ok, nil
}

// Answer evaluates submitted against question id and credits the session at
// most once per question.
func (s *QuizService) Answer(ctx context.Context, email string, id int, submitted string) (domain.AnswerResult, error) {
	q, ok := s.catalog.Question(id)
	if !ok {
		return domain.AnswerResult{}, domain.ErrUnknownQuestion
	}
	result := domain.AnswerResult{
		QuestionID: id,
		Correct:    s.evaluator.IsCorrect(submitted, q.Answer),
	}
	if !result.Correct {
		sess, err := s.snapshot(ctx, email)
		if err != nil {
			return domain.AnswerResult{}, err
		}
		result.TotalScore = sess.Score
		return result, nil
	}

	total := s.catalog.Len()
	sess, err := s.sessions.Update(ctx, email, func(sess *domain.Session) {
		result.Awarded = sess.Credit(id, total, s.now())
	})
	if err != nil {
		return domain.AnswerResult{}, err
	}
	result.TotalScore = sess.Score
	return result, nil
}

// Score returns the number of distinct questions answered correctly.
func (s *QuizService) Score(ctx context.Context, email string) (int, error) {
	sess, err := s.snapshot(ctx, email)
	if err != nil {
		return 0, err
	}
	return sess.Score, nil
}

// Reset rewinds cursor, score and credited answers. Under ResetLogin the
// identifier ends up logged in; under ResetNoop an unknown identifier is left
// alone and an existing session keeps its login state.
func (s *QuizService) Reset(ctx context.Context, email string) error {
	login := s.opts.ResetUnknown == ResetLogin
	if !login {
		_, ok, err := s.sessions.Get(ctx, email)
		if err != nil || !ok {
			return err
		}
	}
	_, err := s.sessions.Update(ctx, email, func(sess *domain.Session) {
		sess.Reset(s.now())
		if login {
			sess.LoggedIn = true
		}
	})
	return err
}

// snapshot reads the session, falling back to a fresh one without storing it.
func (s *QuizService) snapshot(ctx context.Context, email string) (domain.Session, error) {
	sess, ok, err := s.sessions.Get(ctx, email)
	if err != nil {
		return domain.Session{}, err
	}
	if !ok {
		return domain.NewSession(email, s.now()), nil
	}
	return sess, nil
}

// FormatQuestion renders a question the way clients parse it.
func FormatQuestion(q domain.Question) string {
	return fmt.Sprintf("Question: %s\nId: %d\nAnswer: %s", q.Text, q.ID, q.Answer)
}

// FormatScore renders the score line.
func FormatScore(score int) string {
	return "Current score: " + strconv.Itoa(score)
}

func parseQuestionID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, domain.ErrInvalidQuestionID
	}
	return id, nil
}
