package dictionary

import (
	"bufio"
	"context"
	"io"
)

// WordSet is an immutable set of normalized words of at least MinWordLength
// runes. A WordSet is itself a Provider.
type WordSet map[string]struct{}

// NewWordSet builds a WordSet from words, applying the same normalization
// as the corpus loader.
func NewWordSet(words ...string) WordSet {
	ws := make(WordSet, len(words))
	for _, w := range words {
		ws.add(w)
	}
	return ws
}

func (ws WordSet) add(word string) bool {
	word = Normalize(word)
	if TooShort(word) {
		return false
	}
	ws[word] = struct{}{}
	return true
}

// Has reports membership of an already normalized word.
func (ws WordSet) Has(word string) bool {
	_, ok := ws[word]
	return ok
}

// Contains implements Provider.
func (ws WordSet) Contains(_ context.Context, token string) bool {
	token = Normalize(token)
	if TooShort(token) {
		return false
	}
	return ws.Has(token)
}

// Len is the number of distinct words.
func (ws WordSet) Len() int { return len(ws) }

// readWords adds one word per line from r and returns how many lines were kept.
func (ws WordSet) readWords(r io.Reader) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	kept := 0
	for sc.Scan() {
		if ws.add(sc.Text()) {
			kept++
		}
	}
	return kept, sc.Err()
}
