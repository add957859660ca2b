package services

import "github.com/ad/go-telegram-progress-stats/internal/models"

// SplitText cuts text into chunks of at most maxLen runes. Joining the
// chunks gives back text unchanged.
//
// SplitFixed slices every maxLen runes. SplitLines ends a chunk right after
// the last newline in the second half of the window, falling back to a plain
// slice when there is none.
func SplitText(text string, maxLen int, strategy models.SplitStrategy) []string {
	if text == "" {
		return nil
	}
	if maxLen <= 0 {
		return []string{text}
	}

	r := []rune(text)
	chunks := make([]string, 0, len(r)/maxLen+1)
	for len(r) > maxLen {
		cut := maxLen
		if strategy == models.SplitLines {
			for i := maxLen - 1; i >= maxLen/2; i-- {
				if r[i] == '\n' {
					cut = i + 1
					break
				}
			}
		}
		chunks = append(chunks, string(r[:cut]))
		r = r[cut:]
	}
	if len(r) > 0 {
		chunks = append(chunks, string(r))
	}
	return chunks
}
