// Package wordlist reads vocabularies of five-letter words and their priors.
package wordlist

import (
	"bufio"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/tiggercwh/go-wordlebot/gameModel"
)

//go:embed default.tsv
var defaultList string

var ErrNoWords = errors.New("word list has no five-letter words")

// List is a vocabulary in file order. Priors[i] belongs to Words[i].
type List struct {
	Words  []gameModel.Word
	Priors []float64
}

func (l List) Len() int { return len(l.Words) }

// Answers lists the words with a positive prior.
func (l List) Answers() []gameModel.Word {
	return lo.Filter(l.Words, func(_ gameModel.Word, i int) bool { return l.Priors[i] > 0 })
}

// Parse reads rows of word[,prior] separated by tabs or commas. A header row
// is skipped and a missing prior counts as 1. Rows that are not five letters
// are skipped; the first occurrence of a word wins.
func Parse(r io.Reader) (List, error) {
	br := bufio.NewReader(r)
	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'
	if first, _ := br.Peek(br.Size()); strings.ContainsRune(firstLine(first), '\t') {
		reader.Comma = '\t'
	}

	var list List
	seen := make(map[gameModel.Word]bool)
	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return List{}, fmt.Errorf("error reading word list: %w", err)
		}
		if len(record) == 0 {
			continue
		}
		field := strings.TrimSpace(record[0])
		if row == 1 && isHeader(record) {
			continue
		}
		word, err := gameModel.ParseWord(field)
		if err != nil {
			continue
		}

		prior := 1.0
		if len(record) > 1 && strings.TrimSpace(record[1]) != "" {
			prior, err = strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
			if err != nil {
				return List{}, fmt.Errorf("row %d: bad prior %q: %w", row, record[1], err)
			}
			if prior < 0 || math.IsNaN(prior) || math.IsInf(prior, 0) {
				return List{}, fmt.Errorf("row %d: prior %v out of range", row, prior)
			}
		}

		if seen[word] {
			continue
		}
		seen[word] = true
		list.Words = append(list.Words, word)
		list.Priors = append(list.Priors, prior)
	}

	if list.Len() == 0 {
		return List{}, ErrNoWords
	}
	return list, nil
}

// isHeader reports whether the first row names its columns rather than
// holding a word and a numeric prior.
func isHeader(record []string) bool {
	if strings.EqualFold(strings.TrimSpace(record[0]), "word") {
		return true
	}
	if len(record) < 2 || strings.TrimSpace(record[1]) == "" {
		return false
	}
	_, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
	return err != nil
}

func firstLine(b []byte) string {
	s := string(b)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// Load reads a word list file. An empty path returns the built-in list.
func Load(path string) (List, error) {
	if path == "" {
		return Default()
	}
	file, err := os.Open(path)
	if err != nil {
		return List{}, fmt.Errorf("failed to open word list file: %w", err)
	}
	defer file.Close()

	list, err := Parse(file)
	if err != nil {
		return List{}, fmt.Errorf("%s: %w", path, err)
	}
	return list, nil
}

// Default is the built-in vocabulary.
func Default() (List, error) {
	return Parse(strings.NewReader(defaultList))
}
