package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/TwiN/go-color"
	"github.com/gorilla/websocket"

	"github.com/tiggercwh/go-wordlebot/gameModel"
)

var serverURL = flag.String("server", "http://localhost:8080/api", "Base URL of the wordlebot server API")

// updateWait bounds how long the client waits for pushed suggestions.
const updateWait = 30 * time.Second

func makeRequest(method, url string, body interface{}) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

func createSession() (*gameModel.SessionState, error) {
	respBody, err := makeRequest("POST", *serverURL+"/session/new", nil)
	if err != nil {
		return nil, err
	}

	var response gameModel.NewSessionResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return nil, err
	}
	if !response.Success {
		return nil, fmt.Errorf("failed to create session: %s", response.Message)
	}
	return &response.SessionState, nil
}

func submitGuess(sessionID, word, status string) (*gameModel.GuessResponse, error) {
	request := gameModel.GuessRequest{Word: word, Status: status}
	respBody, err := makeRequest("POST", fmt.Sprintf("%s/session/%s/guess", *serverURL, sessionID), request)
	if err != nil {
		return nil, err
	}

	var response gameModel.GuessResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// sessionCommand posts to undo or reset and returns the new state.
func sessionCommand(sessionID, command string) (*gameModel.SessionState, error) {
	respBody, err := makeRequest("POST", fmt.Sprintf("%s/session/%s/%s", *serverURL, sessionID, command), nil)
	if err != nil {
		return nil, err
	}
	var response gameModel.NewSessionResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return nil, err
	}
	if !response.Success {
		return nil, fmt.Errorf("%s failed: %s", command, response.Message)
	}
	return &response.SessionState, nil
}

// subscribe streams the session's pushed suggestions into a channel that is
// closed when the connection drops.
func subscribe(sessionID string) (<-chan gameModel.SuggestionsMessage, func(), error) {
	wsURL := "ws" + strings.TrimPrefix(*serverURL, "http") + "/session/" + sessionID + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return nil, nil, err
	}
	updates := make(chan gameModel.SuggestionsMessage, 4)
	go func() {
		defer close(updates)
		for {
			var msg gameModel.SuggestionsMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			updates <- msg
		}
	}()
	return updates, func() { conn.Close() }, nil
}

// waitFor skips older generations and returns the first message at or past
// generation.
func waitFor(updates <-chan gameModel.SuggestionsMessage, generation uint64) (gameModel.SuggestionsMessage, bool) {
	timeout := time.After(updateWait)
	for {
		select {
		case msg, ok := <-updates:
			if !ok {
				return gameModel.SuggestionsMessage{}, false
			}
			if msg.Generation >= generation {
				return msg, true
			}
		case <-timeout:
			return gameModel.SuggestionsMessage{}, false
		}
	}
}

func printGuessResult(g gameModel.Guess) {
	pattern := g.Status.Pattern()
	for i, c := range strings.ToUpper(g.Word.String()) {
		switch pattern[i] {
		case gameModel.Correct:
			fmt.Print(color.Ize(color.Bold+color.Green, string(c)))
		case gameModel.Misplaced:
			fmt.Print(color.Ize(color.Bold+color.Yellow, string(c)))
		default:
			fmt.Print(color.Ize(color.Gray, string(c)))
		}
	}
	fmt.Println()
}

func printEvaluation(e gameModel.GuessEvaluation) {
	fmt.Printf("  expected %.2f bits", e.ExpectedBits)
	if e.RealBits != nil {
		fmt.Printf(", got %.2f bits", *e.RealBits)
	}
	if e.RemainingAfter != nil {
		fmt.Printf(", %d -> %d candidates", e.RemainingBefore, *e.RemainingAfter)
	}
	fmt.Println()
}

func printSuggestions(msg gameModel.SuggestionsMessage) {
	if msg.Error != "" {
		fmt.Println(color.Ize(color.Red, "No suggestions: "+msg.Error))
		return
	}
	fmt.Println("Suggestions:")
	for i, s := range msg.Suggestions {
		if i == 5 {
			break
		}
		word := s.Word.String()
		if s.IsCandidate {
			word = color.Ize(color.Green, word)
		}
		fmt.Printf("  %d. %s  %.2f bits, %d groups, max %d\n", i+1, word, s.ExpectedBits, s.Groups, s.MaxGroupSize)
	}
}

func main() {
	flag.Parse()
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("Welcome to the Wordle assistant client!")

	state, err := createSession()
	if err != nil {
		fmt.Printf("Error creating session: %v\n", err)
		fmt.Printf("Make sure the server is running at %s\n", *serverURL)
		return
	}
	updates, closeWS, err := subscribe(state.ID)
	if err != nil {
		fmt.Printf("Error opening update stream: %v\n", err)
		return
	}
	defer closeWS()

	fmt.Println("Enter each guess with its feedback, e.g. `crane 02100` or `crane bygbb`.")
	fmt.Println("Commands: undo, reset, quit.")

	generation := state.Generation
	var shown uint64
	for {
		if generation > shown {
			if msg, ok := waitFor(updates, generation); ok {
				printSuggestions(msg)
			} else {
				fmt.Println("No suggestions received.")
			}
			shown = generation
		}

		fmt.Printf("\nRound %d/%d, %d candidates left\n", state.Round+1, state.MaxRounds, state.Remaining)
		for _, past := range state.Guesses {
			printGuessResult(past)
		}
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(strings.ToLower(scanner.Text()))

		switch {
		case len(fields) == 1 && fields[0] == "quit":
			return
		case len(fields) == 1 && (fields[0] == "undo" || fields[0] == "reset"):
			next, err := sessionCommand(state.ID, fields[0])
			if err != nil {
				fmt.Println(err)
				continue
			}
			state, generation = next, next.Generation
		case len(fields) == 2:
			response, err := submitGuess(state.ID, fields[0], fields[1])
			if err != nil {
				fmt.Printf("Error submitting guess: %v\n", err)
				continue
			}
			if !response.Success {
				fmt.Printf("Guess failed: %s\n", response.Message)
				continue
			}
			state = response.SessionState
			generation = state.Generation
			printGuessResult(state.Guesses[len(state.Guesses)-1])
			printEvaluation(*response.Evaluation)
			if response.Solved {
				fmt.Printf("Solved in %d guesses!\n", state.Round)
				return
			}
			if state.Round >= state.MaxRounds {
				fmt.Println("Out of guesses.")
				return
			}
		default:
			fmt.Println("Please enter a word and its feedback pattern.")
		}
	}
}
