package services

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// skuPrefix derives the 3-letter SKU prefix from the product gender:
// the first three letters, uppercased ("mens" → "MEN", "womens" → "WOM",
// "kids" → "KID"). Short inputs are padded with X; an empty input falls
// back to PRD.
func skuPrefix(gender string) string {
	var letters []rune
	for _, r := range gender {
		if unicode.IsLetter(r) {
			letters = append(letters, unicode.ToUpper(r))
			if len(letters) == 3 {
				break
			}
		}
	}
	if len(letters) == 0 {
		return "PRD"
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	return string(letters)
}

// fallbackSKU builds a collision-resistant SKU when the store-side
// generator cannot produce one: PREFIX-<ms timestamp>-<random token>.
func fallbackSKU(prefix string) string {
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), strings.ToUpper(randomToken(6)))
}
