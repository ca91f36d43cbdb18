package game

import "strings"

type trieNode struct {
	children map[rune]*trieNode
	isEnd    bool
}

// Trie is a prefix tree over the word dictionary. Guess submissions are
// checked against it so known dictionary words can be flagged on the
// guess record. Lookups are case-insensitive.
type Trie struct {
	root *trieNode
}

func NewTrie() *Trie {
	return &Trie{root: &trieNode{children: map[rune]*trieNode{}}}
}

func (t *Trie) Insert(word string) {
	current := t.root
	for _, ch := range strings.ToLower(word) {
		next, ok := current.children[ch]
		if !ok {
			next = &trieNode{children: map[rune]*trieNode{}}
			current.children[ch] = next
		}
		current = next
	}
	current.isEnd = true
}

// Search reports whether word is present as an exact entry.
func (t *Trie) Search(word string) bool {
	node := t.walk(word)
	return node != nil && node.isEnd
}

// StartsWith reports whether any entry begins with prefix.
func (t *Trie) StartsWith(prefix string) bool {
	return t.walk(prefix) != nil
}

func (t *Trie) walk(s string) *trieNode {
	current := t.root
	for _, ch := range strings.ToLower(s) {
		next, ok := current.children[ch]
		if !ok {
			return nil
		}
		current = next
	}
	return current
}
