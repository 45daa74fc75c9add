package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/tiggercwh/go-wordlebot/gameModel"
	"github.com/tiggercwh/go-wordlebot/solver"
)

// readLines forwards input lines until EOF or ctx ends, then closes the
// returned channel.
func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

// assist keeps suggestions current while the user types guesses. Input and
// recompute results are multiplexed so a slow recompute never blocks typing.
func (a *app) assist(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sched := solver.NewScheduler(ctx, a.solver, a.cfg.SuggestOptions())
	defer sched.Close()

	var history []gameModel.Guess
	sched.Submit(history)
	fmt.Println("Enter each guess with its feedback, e.g. `crane 02100`. Commands: undo, reset, quit.")
	fmt.Println("computing suggestions...")

	lines := readLines(ctx, in)
	for {
		select {
		case <-ctx.Done():
			return nil
		case u := <-sched.Results():
			if u.Err != nil {
				fmt.Println("no suggestions:", u.Err)
				continue
			}
			c, err := a.solver.Remaining(u.Guesses)
			if err != nil {
				return err
			}
			fmt.Printf("\n%d candidates left\n", c.Len())
			printEvaluations(u.Suggestions)
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			next, done, err := applyCommand(history, line)
			if err != nil {
				fmt.Println(err)
				continue
			}
			if done {
				return nil
			}
			if len(next) > len(history) && !a.solver.IsValidGuess(next[len(next)-1].Word) {
				fmt.Printf("%s is not in the word list\n", next[len(next)-1].Word)
				continue
			}
			history = next
			for _, g := range history {
				printGuessResult(g)
			}
			if len(history) > 0 && history[len(history)-1].Solved() {
				fmt.Println("Solved!")
				return nil
			}
			sched.Submit(history)
			fmt.Println("computing suggestions...")
		}
	}
}

// applyCommand interprets one line of assist input against history.
func applyCommand(history []gameModel.Guess, line string) ([]gameModel.Guess, bool, error) {
	fields := strings.Fields(strings.ToLower(line))
	switch {
	case len(fields) == 1 && fields[0] == "quit":
		return history, true, nil
	case len(fields) == 1 && fields[0] == "reset":
		return nil, false, nil
	case len(fields) == 1 && fields[0] == "undo":
		if len(history) == 0 {
			return history, false, fmt.Errorf("nothing to undo")
		}
		return history[:len(history)-1], false, nil
	case len(fields) == 2:
		guesses, err := parsePairs(fields)
		if err != nil {
			return history, false, err
		}
		return append(history[:len(history):len(history)], guesses...), false, nil
	}
	return history, false, fmt.Errorf("enter a guess and its pattern, or undo, reset, quit")
}
