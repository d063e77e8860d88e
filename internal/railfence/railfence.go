// Package railfence implements the rail-fence transposition cipher.
//
// Characters are written along a zigzag across a fixed number of rails and
// read off rail by rail. A rail count outside [2, len-1] leaves the message
// unchanged; callers that want a real transposition validate the key first.
package railfence

import "strings"

// Degenerate reports whether rails produces an identity transform for a
// message of n characters.
func Degenerate(n, rails int) bool {
	return rails <= 1 || rails >= n
}

// Pattern returns the zigzag rail index of each of n positions:
// 0, 1, ..., rails-1, rails-2, ..., 0, 1, ...
func Pattern(n, rails int) []int {
	pattern := make([]int, n)
	if rails <= 1 {
		return pattern
	}
	rail, dir := 0, 1
	for i := range pattern {
		pattern[i] = rail
		if rail == 0 {
			dir = 1
		} else if rail == rails-1 {
			dir = -1
		}
		rail += dir
	}
	return pattern
}

// Encrypt transposes plaintext across rails.
func Encrypt(plaintext string, rails int) string {
	runes := []rune(plaintext)
	if Degenerate(len(runes), rails) {
		return plaintext
	}

	fence := make([][]rune, rails)
	for i, r := range Pattern(len(runes), rails) {
		fence[r] = append(fence[r], runes[i])
	}

	out := make([]rune, 0, len(runes))
	for _, row := range fence {
		out = append(out, row...)
	}
	return string(out)
}

// Decrypt reverses Encrypt for the same rail count.
func Decrypt(ciphertext string, rails int) string {
	runes := []rune(ciphertext)
	if Degenerate(len(runes), rails) {
		return ciphertext
	}

	pattern := Pattern(len(runes), rails)
	counts := make([]int, rails)
	for _, r := range pattern {
		counts[r]++
	}

	// next[r] is the ciphertext offset of the next unread rune on rail r.
	next := make([]int, rails)
	offset := 0
	for r, c := range counts {
		next[r] = offset
		offset += c
	}

	out := make([]rune, len(runes))
	for i, r := range pattern {
		out[i] = runes[next[r]]
		next[r]++
	}
	return string(out)
}

// Fence draws the zigzag layout of text, one line per rail, with each
// character in its column and dots elsewhere.
func Fence(text string, rails int) string {
	runes := []rune(text)
	if rails < 1 {
		rails = 1
	}
	rows := make([][]rune, rails)
	for r := range rows {
		rows[r] = []rune(strings.Repeat(".", len(runes)))
	}
	for i, r := range Pattern(len(runes), rails) {
		rows[r][i] = runes[i]
	}

	var b strings.Builder
	for r, row := range rows {
		if r > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(row))
	}
	return b.String()
}
