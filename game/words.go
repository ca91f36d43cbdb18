package game

import (
	"math/rand"
	"strings"
)

// DefaultWordList is the built-in dictionary. Difficulty ranks: 1 easy,
// 2 medium, 3 hard. Lower ranks are handed out first.
var DefaultWordList = []WordEntry{
	{"cat", 1}, {"dog", 1}, {"sun", 1}, {"car", 1}, {"tree", 1},
	{"house", 1}, {"fish", 1}, {"star", 1}, {"ball", 1}, {"book", 1},
	{"apple", 1}, {"moon", 1}, {"cake", 1}, {"shoe", 1}, {"duck", 1},
	{"pizza", 2}, {"guitar", 2}, {"rocket", 2}, {"castle", 2}, {"bridge", 2},
	{"rainbow", 2}, {"penguin", 2}, {"tractor", 2}, {"volcano", 2}, {"dolphin", 2},
	{"cactus", 2}, {"lighthouse", 2}, {"snowman", 2}, {"octopus", 2}, {"windmill", 2},
	{"ice cream", 2}, {"hot dog", 2}, {"campfire", 2}, {"ladder", 2}, {"anchor", 2},
	{"astronaut", 3}, {"submarine", 3}, {"scarecrow", 3}, {"telescope", 3}, {"waterfall", 3},
	{"helicopter", 3}, {"dinosaur", 3}, {"pyramid", 3}, {"treasure chest", 3}, {"ferris wheel", 3},
	{"jellyfish", 3}, {"microscope", 3}, {"parachute", 3}, {"skyscraper", 3}, {"tornado", 3},
}

// customWordDifficulty is the rank custom words are inserted at, so they
// surface before every standard word until depleted.
const customWordDifficulty = 1

// fallbackAttempts bounds the random-repick loop once the pool is
// exhausted; after that a repeat is accepted rather than looping forever.
const fallbackAttempts = 50

// WordSelector hands out unique words in non-decreasing difficulty order
// for one game session. Words are never un-used, so a long enough game
// degrades to random selection with possible repeats.
type WordSelector struct {
	pool       *PriorityPool
	used       map[string]bool
	dictionary []WordEntry
	rng        *rand.Rand
}

func NewWordSelector(dictionary []WordEntry, rng *rand.Rand) *WordSelector {
	pool := NewPriorityPool()
	for _, entry := range dictionary {
		pool.Insert(entry)
	}
	return &WordSelector{
		pool:       pool,
		used:       make(map[string]bool),
		dictionary: dictionary,
		rng:        rng,
	}
}

// AddCustomWords merges a comma-separated word list into the pool at the
// easiest rank. Blank entries are dropped.
func (s *WordSelector) AddCustomWords(csv string) {
	for _, raw := range strings.Split(csv, ",") {
		word := strings.TrimSpace(raw)
		if word == "" {
			continue
		}
		s.pool.Insert(WordEntry{Word: word, Difficulty: customWordDifficulty})
	}
}

// Next returns the easiest unused word. When the pool runs dry it falls
// back to uniform random picks from the dictionary, retrying a bounded
// number of times before accepting a repeat. The returned word is always
// registered as used.
func (s *WordSelector) Next() WordEntry {
	for {
		entry, ok := s.pool.ExtractMin()
		if !ok {
			break
		}
		if s.used[entry.Word] {
			continue
		}
		s.used[entry.Word] = true
		return entry
	}

	entry := s.dictionary[s.rng.Intn(len(s.dictionary))]
	for attempts := 0; s.used[entry.Word] && attempts < fallbackAttempts; attempts++ {
		entry = s.dictionary[s.rng.Intn(len(s.dictionary))]
	}
	s.used[entry.Word] = true
	return entry
}

// Used reports whether a word was already handed out this session.
func (s *WordSelector) Used(word string) bool {
	return s.used[word]
}

// NewDictionaryTrie builds the guess-validation trie over a word list.
func NewDictionaryTrie(dictionary []WordEntry) *Trie {
	trie := NewTrie()
	for _, entry := range dictionary {
		trie.Insert(entry.Word)
	}
	return trie
}
