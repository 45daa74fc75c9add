package gameModel

// Compare returns the feedback shown when guess is played against secret.
// Exact matches are marked first; the remaining guess letters are then
// matched left to right against unconsumed secret letters, so a repeated
// letter is credited at most as often as it appears in the secret.
func Compare(secret, guess Word) Pattern {
	var result Pattern
	var remaining [WordLength]int
	n := 0

	// First pass: identify hits
	for i := 0; i < WordLength; i++ {
		if guess[i] == secret[i] {
			result[i] = Correct
		} else {
			remaining[n] = i
			n++
		}
	}

	// Second pass: identify presents
	left := secret
	for _, pos := range remaining[:n] {
		c := guess[pos]
		if c == 0 {
			continue
		}
		for _, sp := range remaining[:n] {
			if left[sp] == c {
				result[pos] = Misplaced
				left[sp] = 0
				break
			}
		}
	}
	return result
}

// Feedback is Compare packed into a StatusCode.
func Feedback(secret, guess Word) StatusCode {
	return Compare(secret, guess).Code()
}
