package game

import "math/rand"

// Hint reveals fire exactly when the countdown ticks onto these values,
// independent of the configured draw time.
const (
	firstHintAt  = 40
	secondHintAt = 20
)

// MaskWord hides every ASCII letter behind an underscore. Spaces and
// punctuation stay visible, which doubles as a free hint for phrases.
func MaskWord(word string) string {
	masked := []rune(word)
	for i, ch := range masked {
		if isLetter(ch) {
			masked[i] = '_'
		}
	}
	return string(masked)
}

// RevealLetter returns mask with one more random letter of word shown.
// Indices that are already revealed or hold a space are never picked.
// Once everything is revealed the mask is returned unchanged.
func RevealLetter(word, mask string, rng *rand.Rand) string {
	wordRunes := []rune(word)
	maskRunes := []rune(mask)
	if len(maskRunes) != len(wordRunes) {
		return mask
	}

	var hidden []int
	for i := range wordRunes {
		if maskRunes[i] == '_' && wordRunes[i] != ' ' {
			hidden = append(hidden, i)
		}
	}
	if len(hidden) == 0 {
		return mask
	}

	pick := hidden[rng.Intn(len(hidden))]
	maskRunes[pick] = wordRunes[pick]
	return string(maskRunes)
}

// GenerateHints precomputes a sequence of progressively revealed masks,
// uncovering about a third of the word one letter at a time. The result
// seeds the room's hintsQueue; the authoritative in-turn reveals still go
// through RevealLetter at the fixed thresholds.
func GenerateHints(word string, rng *rand.Rand) []string {
	mask := MaskWord(word)
	reveals := len([]rune(word)) / 3
	hints := make([]string, 0, reveals)
	for i := 0; i < reveals; i++ {
		next := RevealLetter(word, mask, rng)
		if next == mask {
			break
		}
		mask = next
		hints = append(hints, mask)
	}
	return hints
}

// hintDue reports whether ticking onto timeLeft crosses a reveal
// threshold. Each threshold fires at most once because the countdown
// passes each value exactly once per turn.
func hintDue(timeLeft int) bool {
	return timeLeft == firstHintAt || timeLeft == secondHintAt
}

func isLetter(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
