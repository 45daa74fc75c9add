package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand"
	"strings"

	"github.com/tiggercwh/go-wordlebot/gameModel"
)

func (a *app) pickAnswer() gameModel.Word {
	answers := a.list.Answers()
	return answers[rand.Intn(len(answers))]
}

// play runs a local game against a random answer. Typing "hint" prints the
// solver's suggestions for the guesses so far.
func (a *app) play(ctx context.Context, in io.Reader) error {
	answer := a.pickAnswer()
	scanner := bufio.NewScanner(in)
	fmt.Println("Welcome to Wordle CLI!")

	states := make(letterStates)
	var history []gameModel.Guess

	for round := 1; round <= a.cfg.MaxRounds; round++ {
		fmt.Printf("\nRound %d/%d\n", round, a.cfg.MaxRounds)
		for _, past := range history {
			printGuessResult(past)
		}
		states.print()

		fmt.Print("Enter a 5-letter word (or hint): ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		input := strings.ToLower(strings.TrimSpace(scanner.Text()))

		if input == "hint" {
			evals, err := a.solver.Suggest(ctx, history, a.cfg.SuggestOptions())
			if err != nil {
				return err
			}
			printEvaluations(evals[:min(5, len(evals))])
			round--
			continue
		}

		guess, err := gameModel.ParseWord(input)
		if err != nil || !a.solver.IsValidGuess(guess) {
			fmt.Println("Please enter a valid 5-letter word.")
			round--
			continue
		}

		g := gameModel.Guess{Word: guess, Status: gameModel.Feedback(answer, guess)}
		history = append(history, g)
		states.update(g)
		a.log.Debug().Stringer("guess", g).Msg("played")

		if g.Solved() {
			printGuessResult(g)
			fmt.Println("Congratulations! You guessed the word.")
			return nil
		}
	}
	fmt.Printf("Game over! The word was: %s\n", answer)
	return nil
}
