package gameModel

// LetterStatus is the feedback for a single letter. The ordinal is part of
// the StatusCode encoding.
type LetterStatus uint8

const (
	Absent LetterStatus = iota
	Misplaced
	Correct
)

func (s LetterStatus) String() string {
	switch s {
	case Absent:
		return "absent"
	case Misplaced:
		return "misplaced"
	case Correct:
		return "correct"
	}
	return "unknown"
}

// Guess is a played word together with the feedback observed for it.
type Guess struct {
	Word   Word       `json:"word"`
	Status StatusCode `json:"status"`
}

func NewGuess(word Word, pattern Pattern) Guess {
	return Guess{Word: word, Status: pattern.Code()}
}

// Solved reports whether every letter of the guess was correct.
func (g Guess) Solved() bool {
	return g.Status == AllCorrect
}

func (g Guess) String() string {
	return g.Word.String() + ":" + g.Status.String()
}

// GuessEvaluation is a snapshot of how good a guess is against a candidate
// set. Optional fields are nil when not computed.
type GuessEvaluation struct {
	Word            Word     `json:"word"`
	ExpectedBits    float64  `json:"expectedBits"`
	RealBits        *float64 `json:"realBits,omitempty"`
	Groups          int      `json:"groups"`
	MaxGroupSize    int      `json:"maxGroupSize"`
	RemainingBefore int      `json:"remainingBefore"`
	RemainingAfter  *int     `json:"remainingAfter,omitempty"`
	IsCandidate     bool     `json:"isCandidate"`
	Prior           float64  `json:"prior"`
	TwoLevelBits    *float64 `json:"twoLevelBits,omitempty"`
}

type SessionState struct {
	ID           string            `json:"id"`
	Round        int               `json:"round"`
	MaxRounds    int               `json:"maxRounds"`
	Guesses      []Guess           `json:"guesses"`
	Evaluations  []GuessEvaluation `json:"evaluations"`
	Remaining    int               `json:"remaining"`
	Candidates   []string          `json:"candidates,omitempty"`
	Suggestions  []GuessEvaluation `json:"suggestions"`
	Generation   uint64            `json:"generation"`
	Pending      bool              `json:"pending"`
	Solved       bool              `json:"solved"`
	CreatedAt    string            `json:"createdAt"`
	LastActivity string            `json:"lastActivity"`
}

type GuessRequest struct {
	Word   string `json:"word"`
	Status string `json:"status"`
}

type GuessResponse struct {
	Success      bool             `json:"success"`
	Message      string           `json:"message"`
	Evaluation   *GuessEvaluation `json:"evaluation,omitempty"`
	SessionState *SessionState    `json:"sessionState,omitempty"`
	Solved       bool             `json:"solved"`
}

type NewSessionResponse struct {
	Success      bool         `json:"success"`
	Message      string       `json:"message"`
	SessionState SessionState `json:"sessionState"`
}

type EvaluateRequest struct {
	Word      string  `json:"word"`
	Guesses   []Guess `json:"guesses"`
	Status    *string `json:"status,omitempty"`
	Lookahead bool    `json:"lookahead"`
}

type EvaluateResponse struct {
	Success    bool             `json:"success"`
	Message    string           `json:"message"`
	Evaluation *GuessEvaluation `json:"evaluation,omitempty"`
}

type RankResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Words   []string `json:"words"`
}

type ValidResponse struct {
	Word  string `json:"word"`
	Valid bool   `json:"valid"`
}

// SuggestionsMessage is pushed over the session websocket whenever a
// recompute finishes.
type SuggestionsMessage struct {
	Generation  uint64            `json:"generation"`
	Guesses     []Guess           `json:"guesses"`
	Suggestions []GuessEvaluation `json:"suggestions"`
	Error       string            `json:"error,omitempty"`
}
