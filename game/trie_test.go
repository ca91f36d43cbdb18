package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrie_SearchExactOnly(t *testing.T) {
	trie := NewTrie()
	trie.Insert("cat")
	trie.Insert("castle")

	assert.True(t, trie.Search("cat"))
	assert.True(t, trie.Search("castle"))
	assert.False(t, trie.Search("ca"))
	assert.False(t, trie.Search("cats"))
	assert.False(t, trie.Search("dog"))
}

func TestTrie_CaseInsensitive(t *testing.T) {
	trie := NewTrie()
	trie.Insert("Dolphin")

	assert.True(t, trie.Search("dolphin"))
	assert.True(t, trie.Search("DOLPHIN"))
}

func TestTrie_StartsWith(t *testing.T) {
	trie := NewTrie()
	trie.Insert("rainbow")

	assert.True(t, trie.StartsWith("rain"))
	assert.True(t, trie.StartsWith("rainbow"))
	assert.False(t, trie.StartsWith("rainbows"))
	assert.False(t, trie.StartsWith("x"))
}

func TestTrie_MultiWordEntries(t *testing.T) {
	trie := NewDictionaryTrie(DefaultWordList)

	assert.True(t, trie.Search("ice cream"))
	assert.True(t, trie.Search("treasure chest"))
	assert.False(t, trie.Search("ice"))
}
