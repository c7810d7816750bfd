// Package tagger obtains morphologically annotated tokens for raw German
// text. Tagging itself is delegated to an external service; this package
// defines the client-side contract and an HTTP implementation.
package tagger

import (
	"context"

	"github.com/wortlupe/wortlupe/token"
)

// Tagger annotates raw text with lemmas, part-of-speech tags, morphological
// features, and entity types. Implementations must preserve surface order:
// the returned slice reads back as the original text.
type Tagger interface {
	// Tag annotates text and returns the token sequence in surface order.
	Tag(ctx context.Context, text string) ([]token.Token, error)
}
