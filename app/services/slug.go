package services

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"unicode"
)

// Slugify lowercases the name, strips everything outside [a-z0-9], spaces,
// and hyphens, then collapses each run of spaces and hyphens into a single
// hyphen and trims the ends. The result always matches [a-z0-9-]+ so slugs
// stay URL-safe; a name with no usable characters yields a random token so
// the result is never empty.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // swallow leading separators

	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case unicode.IsSpace(r) || r == '-':
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "item-" + randomToken(6)
	}
	return slug
}

// randomToken returns n hex characters from crypto/rand.
func randomToken(n int) string {
	buf := make([]byte, (n+1)/2)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return hex.EncodeToString(buf)[:n]
}
