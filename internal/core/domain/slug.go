package domain

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// Slug Generation
// =============================================================================

// reservedSlugs are path segments that route to application pages and must
// never be handed out as a family slug.
var reservedSlugs = map[string]bool{
	"admin":     true,
	"api":       true,
	"login":     true,
	"dashboard": true,
}

// IsReservedSlug reports whether the slug collides with an application route.
func IsReservedSlug(slug string) bool {
	return reservedSlugs[slug]
}

// Slugify converts a display name to a URL-safe slug.
//
// The transformation rules are:
//   - Lowercase everything
//   - Decompose accented characters and drop the combining marks,
//     so "Pérez" becomes "perez"
//   - Replace every run of characters outside [a-z0-9] with a single hyphen
//   - Trim leading and trailing hyphens
//
// This is a pure function with no side effects.
//
// Example:
//
//	Slugify("Familia Pérez")   // returns "familia-perez"
//	Slugify("  O'Brien & Co ") // returns "o-brien-co"
func Slugify(name string) string {
	name = strings.ToLower(name)
	name = norm.NFD.String(name)

	var b strings.Builder
	lastHyphen := false
	for _, r := range name {
		switch {
		case unicode.Is(unicode.Mn, r):
			// combining mark stripped by NFD decomposition
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// UniqueSlug derives a slug from name that passes both the reserved-word
// check and the taken probe. When the base slug is unavailable it appends
// -2, -3, ... until a free candidate is found.
//
// The probe is typically backed by a store lookup; under concurrent creation
// the result is "usually unique" and the store's UNIQUE constraint on the
// slug column is the final authority.
func UniqueSlug(name string, taken func(string) bool) string {
	base := Slugify(name)
	if base == "" {
		base = "familia"
	}

	if !IsReservedSlug(base) && !taken(base) {
		return base
	}

	for i := 2; ; i++ {
		candidate := base + "-" + strconv.Itoa(i)
		if !IsReservedSlug(candidate) && !taken(candidate) {
			return candidate
		}
	}
}
