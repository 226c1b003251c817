package comments

import "strings"

const MinTitleLength = 5

var bannedWords = []string{"nefasto", "tonto"}

// FindBannedWord returns the first banned word contained in s, ignoring case.
func FindBannedWord(s string) (string, bool) {
	lowered := strings.ToLower(s)
	for _, word := range bannedWords {
		if strings.Contains(lowered, word) {
			return word, true
		}
	}
	return "", false
}
