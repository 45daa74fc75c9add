package main

import (
	"fmt"
	"strings"

	"github.com/TwiN/go-color"

	"github.com/tiggercwh/go-wordlebot/gameModel"
)

func paint(s gameModel.LetterStatus, text string) string {
	switch s {
	case gameModel.Correct:
		return color.Ize(color.Bold+color.Green, text)
	case gameModel.Misplaced:
		return color.Ize(color.Bold+color.Yellow, text)
	default:
		return color.Ize(color.Gray, text)
	}
}

func printGuessResult(g gameModel.Guess) {
	pattern := g.Status.Pattern()
	word := strings.ToUpper(g.Word.String())
	for i := range word {
		fmt.Print(paint(pattern[i], word[i:i+1]))
	}
	fmt.Println()
}

func printEvaluations(evals []gameModel.GuessEvaluation) {
	fmt.Printf("%-3s %-6s %6s %6s %7s %6s %6s\n", "#", "word", "bits", "2-lvl", "groups", "max", "prior")
	for i, e := range evals {
		two := "-"
		if e.TwoLevelBits != nil {
			two = fmt.Sprintf("%.3f", *e.TwoLevelBits)
		}
		word := fmt.Sprintf("%-6s", e.Word)
		if e.IsCandidate {
			word = color.Ize(color.Green, word)
		}
		fmt.Printf("%-3d %s %6.3f %6s %7d %6d %6.3f\n", i+1, word, e.ExpectedBits, two, e.Groups, e.MaxGroupSize, e.Prior)
	}
}

// letterStates tracks the best feedback seen for each letter.
type letterStates map[byte]gameModel.LetterStatus

func (ls letterStates) update(g gameModel.Guess) {
	pattern := g.Status.Pattern()
	for i, c := range g.Word {
		if existing, ok := ls[c]; !ok || pattern[i] > existing {
			ls[c] = pattern[i]
		}
	}
}

func (ls letterStates) print() {
	for _, row := range []string{"qwertyuiop", "asdfghjkl", "zxcvbnm"} {
		for i := 0; i < len(row); i++ {
			letter := strings.ToUpper(row[i : i+1])
			if s, ok := ls[row[i]]; ok {
				fmt.Print(paint(s, letter), " ")
			} else {
				fmt.Print(letter, " ")
			}
		}
		fmt.Println()
	}
}
