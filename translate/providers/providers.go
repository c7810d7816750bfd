// Package providers implements translation service adapters. Each provider
// registers itself with the translate registry via init(), so importing this
// package for side effects makes every adapter available by name.
package providers

import "strings"

// zipWords pairs submitted words with service results aligned by index.
// Services occasionally return short or padded result lists; pairing stops
// at the shorter length and empty translations are dropped rather than
// cached.
func zipWords(words, translations []string) map[string]string {
	n := min(len(words), len(translations))

	result := make(map[string]string, n)
	for i := 0; i < n; i++ {
		translation := strings.TrimSpace(translations[i])
		if translation == "" {
			continue
		}
		result[words[i]] = translation
	}
	return result
}
