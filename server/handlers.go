package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/samber/lo"

	"github.com/tiggercwh/go-wordlebot/gameModel"
	"github.com/tiggercwh/go-wordlebot/solver"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusFor maps engine and parse errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, gameModel.ErrInvalidWord),
		errors.Is(err, gameModel.ErrInvalidPattern),
		errors.Is(err, solver.ErrUnknownWord):
		return http.StatusBadRequest
	case errors.Is(err, solver.ErrEmptyCandidateSet),
		errors.Is(err, errSessionOver),
		errors.Is(err, errNoGuesses):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (ss *SolverServer) sessionFromRequest(w http.ResponseWriter, r *http.Request) (*session, bool) {
	sess, exists := ss.getSession(mux.Vars(r)["sessionID"])
	if !exists {
		writeJSON(w, http.StatusNotFound, gameModel.GuessResponse{Message: "Session not found"})
	}
	return sess, exists
}

func (ss *SolverServer) writeState(w http.ResponseWriter, r *http.Request, sess *session, message string) {
	state, err := ss.state(r.Context(), sess)
	if err != nil {
		writeJSON(w, statusFor(err), gameModel.NewSessionResponse{Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, gameModel.NewSessionResponse{
		Success:      true,
		Message:      message,
		SessionState: state,
	})
}

func (ss *SolverServer) handleNewSession(w http.ResponseWriter, r *http.Request) {
	sess := ss.createSession()
	ss.writeState(w, r, sess, "New session created successfully")
}

func (ss *SolverServer) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := ss.sessionFromRequest(w, r)
	if !ok {
		return
	}
	ss.writeState(w, r, sess, "")
}

func (ss *SolverServer) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !ss.deleteSession(mux.Vars(r)["sessionID"]) {
		writeJSON(w, http.StatusNotFound, gameModel.GuessResponse{Message: "Session not found"})
		return
	}
	writeJSON(w, http.StatusOK, gameModel.GuessResponse{Success: true, Message: "Session deleted"})
}

// parseGuess validates the word against the vocabulary and parses the
// feedback pattern.
func (ss *SolverServer) parseGuess(word, status string) (gameModel.Guess, error) {
	w, err := gameModel.ParseWord(word)
	if err != nil {
		return gameModel.Guess{}, err
	}
	if !ss.solver.IsValidGuess(w) {
		return gameModel.Guess{}, fmt.Errorf("%w: %q", solver.ErrUnknownWord, w)
	}
	p, err := gameModel.ParsePattern(status)
	if err != nil {
		return gameModel.Guess{}, err
	}
	return gameModel.NewGuess(w, p), nil
}

func (ss *SolverServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req gameModel.GuessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, gameModel.GuessResponse{Message: "Invalid request body"})
		return
	}
	sess, ok := ss.sessionFromRequest(w, r)
	if !ok {
		return
	}

	g, err := ss.parseGuess(req.Word, req.Status)
	if err != nil {
		writeJSON(w, statusFor(err), gameModel.GuessResponse{Message: err.Error()})
		return
	}
	eval, err := ss.addGuess(r.Context(), sess, g)
	if err != nil {
		writeJSON(w, statusFor(err), gameModel.GuessResponse{Message: err.Error()})
		return
	}

	state, err := ss.state(r.Context(), sess)
	if err != nil {
		writeJSON(w, statusFor(err), gameModel.GuessResponse{Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, gameModel.GuessResponse{
		Success:      true,
		Message:      "Guess processed successfully",
		Evaluation:   &eval,
		SessionState: &state,
		Solved:       g.Solved(),
	})
}

func (ss *SolverServer) handleUndo(w http.ResponseWriter, r *http.Request) {
	sess, ok := ss.sessionFromRequest(w, r)
	if !ok {
		return
	}
	if err := ss.undo(sess); err != nil {
		writeJSON(w, statusFor(err), gameModel.NewSessionResponse{Message: err.Error()})
		return
	}
	ss.writeState(w, r, sess, "Last guess removed")
}

func (ss *SolverServer) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := ss.sessionFromRequest(w, r)
	if !ok {
		return
	}
	ss.reset(sess)
	ss.writeState(w, r, sess, "Session reset")
}

func (ss *SolverServer) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req gameModel.EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, gameModel.EvaluateResponse{Message: "Invalid request body"})
		return
	}
	eval, err := ss.evaluate(r, req)
	if err != nil {
		writeJSON(w, statusFor(err), gameModel.EvaluateResponse{Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, gameModel.EvaluateResponse{Success: true, Evaluation: &eval})
}

func (ss *SolverServer) evaluate(r *http.Request, req gameModel.EvaluateRequest) (gameModel.GuessEvaluation, error) {
	word, err := gameModel.ParseWord(req.Word)
	if err != nil {
		return gameModel.GuessEvaluation{}, err
	}
	c, err := ss.solver.Remaining(req.Guesses)
	if err != nil {
		return gameModel.GuessEvaluation{}, err
	}
	var observed *gameModel.StatusCode
	if req.Status != nil {
		code, err := gameModel.ParseStatus(*req.Status)
		if err != nil {
			return gameModel.GuessEvaluation{}, err
		}
		observed = &code
	}
	return ss.solver.Evaluate(r.Context(), word, c, observed, req.Lookahead)
}

// parseHistory reads guesses encoded as word:pattern,word:pattern.
func parseHistory(s string) ([]gameModel.Guess, error) {
	var history []gameModel.Guess
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		word, pattern, ok := strings.Cut(item, ":")
		if !ok {
			return nil, fmt.Errorf("%w: %q is not word:pattern", gameModel.ErrInvalidPattern, item)
		}
		var g gameModel.Guess
		if err := g.Word.UnmarshalText([]byte(word)); err != nil {
			return nil, err
		}
		if err := g.Status.UnmarshalText([]byte(pattern)); err != nil {
			return nil, err
		}
		history = append(history, g)
	}
	return history, nil
}

func (ss *SolverServer) handleRank(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	history, err := parseHistory(q.Get("guesses"))
	if err != nil {
		writeJSON(w, statusFor(err), gameModel.RankResponse{Message: err.Error()})
		return
	}

	n := ss.opts.N
	if v := q.Get("n"); v != "" {
		if n, err = strconv.Atoi(v); err != nil {
			writeJSON(w, http.StatusBadRequest, gameModel.RankResponse{Message: "n must be an integer"})
			return
		}
	}
	penalty := ss.opts.Penalty
	if len(history) == 0 {
		penalty = 0
	}
	if v := q.Get("penalty"); v != "" {
		if penalty, err = strconv.ParseFloat(v, 64); err != nil {
			writeJSON(w, http.StatusBadRequest, gameModel.RankResponse{Message: "penalty must be a number"})
			return
		}
	}

	ranked, err := ss.rank(r, history, n, penalty)
	if err != nil {
		writeJSON(w, statusFor(err), gameModel.RankResponse{Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, gameModel.RankResponse{
		Success: true,
		Words:   lo.Map(ranked, func(w gameModel.Word, _ int) string { return w.String() }),
	})
}

func (ss *SolverServer) rank(r *http.Request, history []gameModel.Guess, n int, penalty float64) ([]gameModel.Word, error) {
	c, err := ss.solver.Remaining(history)
	if err != nil {
		return nil, err
	}
	return ss.solver.Rank(r.Context(), n, c, penalty)
}

func (ss *SolverServer) handleValid(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["word"]
	resp := gameModel.ValidResponse{Word: strings.ToLower(raw)}
	if word, err := gameModel.ParseWord(raw); err == nil {
		resp.Valid = ss.solver.IsValidGuess(word)
	}
	writeJSON(w, http.StatusOK, resp)
}
