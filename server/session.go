package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/tiggercwh/go-wordlebot/gameModel"
	"github.com/tiggercwh/go-wordlebot/solver"
)

// maxListedCandidates bounds the remaining words returned with a session.
const maxListedCandidates = 50

var (
	errNoGuesses   = errors.New("no guesses to undo")
	errSessionOver = errors.New("session is already over")
)

// session is one assisted puzzle. Its scheduler and pump live until the
// session is deleted.
type session struct {
	id        string
	createdAt time.Time
	sched     *solver.Scheduler
	cancel    context.CancelFunc
	done      <-chan struct{}

	mu           sync.Mutex
	guesses      []gameModel.Guess
	latest       *solver.Update
	lastActivity time.Time
	subs         map[chan gameModel.SuggestionsMessage]struct{}
}

type SolverServer struct {
	solver    *solver.Solver
	opts      solver.SuggestOptions
	maxRounds int
	root      context.Context
	log       zerolog.Logger

	sessions map[string]*session
	mutex    sync.RWMutex
}

func NewSolverServer(root context.Context, s *solver.Solver, opts solver.SuggestOptions, maxRounds int, log zerolog.Logger) *SolverServer {
	return &SolverServer{
		solver:    s,
		opts:      opts,
		maxRounds: maxRounds,
		root:      root,
		log:       log,
		sessions:  make(map[string]*session),
	}
}

var sessionSeq atomic.Uint64

func generateSessionID() string {
	return fmt.Sprintf("session_%d_%d", time.Now().UnixNano(), sessionSeq.Add(1))
}

func (ss *SolverServer) createSession() *session {
	ctx, cancel := context.WithCancel(ss.root)
	now := time.Now()
	sess := &session{
		id:           generateSessionID(),
		createdAt:    now,
		lastActivity: now,
		sched:        solver.NewScheduler(ctx, ss.solver, ss.opts),
		cancel:       cancel,
		done:         ctx.Done(),
		subs:         make(map[chan gameModel.SuggestionsMessage]struct{}),
	}
	go sess.pump(ctx, ss.log.With().Str("session", sess.id).Logger())

	ss.mutex.Lock()
	ss.sessions[sess.id] = sess
	ss.mutex.Unlock()

	sess.mu.Lock()
	sess.submit()
	sess.mu.Unlock()
	ss.log.Info().Str("session", sess.id).Msg("session created")
	return sess
}

func (ss *SolverServer) getSession(id string) (*session, bool) {
	ss.mutex.RLock()
	defer ss.mutex.RUnlock()
	sess, exists := ss.sessions[id]
	return sess, exists
}

func (ss *SolverServer) deleteSession(id string) bool {
	ss.mutex.Lock()
	sess, exists := ss.sessions[id]
	delete(ss.sessions, id)
	ss.mutex.Unlock()
	if !exists {
		return false
	}
	sess.sched.Close()
	sess.cancel()
	ss.log.Info().Str("session", id).Msg("session deleted")
	return true
}

// Close cancels every session.
func (ss *SolverServer) Close() {
	ss.mutex.RLock()
	ids := lo.Keys(ss.sessions)
	ss.mutex.RUnlock()
	for _, id := range ids {
		ss.deleteSession(id)
	}
}

// addGuess rejects feedback that leaves no candidate, otherwise appends the
// guess and schedules fresh suggestions. The returned evaluation is taken
// against the candidates that preceded the guess.
func (ss *SolverServer) addGuess(ctx context.Context, sess *session, g gameModel.Guess) (gameModel.GuessEvaluation, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.solved() || len(sess.guesses) >= ss.maxRounds {
		return gameModel.GuessEvaluation{}, errSessionOver
	}
	before, err := ss.solver.Remaining(sess.guesses)
	if err != nil {
		return gameModel.GuessEvaluation{}, err
	}
	next := append(append([]gameModel.Guess(nil), sess.guesses...), g)
	after, err := ss.solver.Remaining(next)
	if err != nil {
		return gameModel.GuessEvaluation{}, err
	}
	if after.Len() == 0 {
		return gameModel.GuessEvaluation{}, fmt.Errorf("feedback %s contradicts earlier guesses: %w", g, solver.ErrEmptyCandidateSet)
	}
	eval, err := ss.solver.Evaluate(ctx, g.Word, before, &g.Status, false)
	if err != nil {
		return gameModel.GuessEvaluation{}, err
	}

	sess.guesses = next
	sess.submit()
	return eval, nil
}

func (ss *SolverServer) undo(sess *session) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if len(sess.guesses) == 0 {
		return errNoGuesses
	}
	sess.guesses = sess.guesses[:len(sess.guesses)-1]
	sess.submit()
	return nil
}

func (ss *SolverServer) reset(sess *session) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.guesses = nil
	sess.submit()
}

// state snapshots a session. ctx bounds the history evaluation.
func (ss *SolverServer) state(ctx context.Context, sess *session) (gameModel.SessionState, error) {
	sess.mu.Lock()
	guesses := append([]gameModel.Guess(nil), sess.guesses...)
	latest := sess.latest
	gen := sess.sched.Generation()
	state := gameModel.SessionState{
		ID:           sess.id,
		Round:        len(guesses),
		MaxRounds:    ss.maxRounds,
		Guesses:      guesses,
		Generation:   gen,
		Pending:      latest == nil || latest.Generation != gen,
		Solved:       sess.solved(),
		CreatedAt:    sess.createdAt.Format(time.RFC3339),
		LastActivity: sess.lastActivity.Format(time.RFC3339),
	}
	sess.mu.Unlock()

	if latest != nil && latest.Generation == gen {
		state.Suggestions = latest.Suggestions
	}

	c, err := ss.solver.Remaining(guesses)
	if err != nil {
		return gameModel.SessionState{}, err
	}
	state.Remaining = c.Len()
	words := ss.solver.Words(c)
	state.Candidates = lo.Map(words[:min(len(words), maxListedCandidates)], func(w gameModel.Word, _ int) string {
		return w.String()
	})

	state.Evaluations, err = ss.solver.EvaluateHistory(ctx, guesses)
	if err != nil {
		return gameModel.SessionState{}, err
	}
	return state, nil
}

// submit reschedules suggestions for the current history. Callers hold mu.
func (sess *session) submit() {
	sess.lastActivity = time.Now()
	sess.sched.Submit(sess.guesses)
}

// solved reports whether the last guess was all correct. Callers hold mu.
func (sess *session) solved() bool {
	return len(sess.guesses) > 0 && sess.guesses[len(sess.guesses)-1].Solved()
}

// pump forwards scheduler results to the session's subscribers.
func (sess *session) pump(ctx context.Context, log zerolog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case u := <-sess.sched.Results():
			if u.Err != nil {
				log.Warn().Err(u.Err).Uint64("generation", u.Generation).Msg("recompute failed")
			} else {
				log.Debug().Uint64("generation", u.Generation).Int("suggestions", len(u.Suggestions)).Msg("recompute done")
			}
			sess.publish(u)
		}
	}
}

func (sess *session) publish(u solver.Update) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if u.Generation != sess.sched.Generation() {
		// superseded while the pump held it
		return
	}
	sess.latest = &u
	msg := message(u)
	for ch := range sess.subs {
		deliver(ch, msg)
	}
}

// subscribe returns a channel that first holds the latest update, if any,
// and afterwards only the newest one not yet read.
func (sess *session) subscribe() (<-chan gameModel.SuggestionsMessage, func()) {
	ch := make(chan gameModel.SuggestionsMessage, 1)
	sess.mu.Lock()
	sess.subs[ch] = struct{}{}
	if sess.latest != nil {
		ch <- message(*sess.latest)
	}
	sess.mu.Unlock()

	return ch, func() {
		sess.mu.Lock()
		delete(sess.subs, ch)
		sess.mu.Unlock()
	}
}

// deliver replaces an unread message with msg. Callers hold the session lock,
// which makes it the only sender.
func deliver(ch chan gameModel.SuggestionsMessage, msg gameModel.SuggestionsMessage) {
	select {
	case <-ch:
	default:
	}
	ch <- msg
}

func message(u solver.Update) gameModel.SuggestionsMessage {
	msg := gameModel.SuggestionsMessage{
		Generation:  u.Generation,
		Guesses:     u.Guesses,
		Suggestions: u.Suggestions,
	}
	if u.Err != nil {
		msg.Error = u.Err.Error()
	}
	return msg
}
