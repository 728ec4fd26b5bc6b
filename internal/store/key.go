package store

import "strings"

// KeyPrefix namespaces every document key in the key-value store.
const KeyPrefix = "docs:"

// DeriveKey maps a filename to its document key: extension stripped,
// every non-alphanumeric character replaced with an underscore,
// lowercased, prefixed with the docs namespace. Pure and stable: the
// same filename always yields the same key. Different filenames that
// sanitize to the same string overwrite each other; that collision is
// accepted behaviour.
func DeriveKey(filename string) string {
	return KeyPrefix + sanitizeFilename(filename)
}

func sanitizeFilename(filename string) string {
	base := filename
	if idx := strings.LastIndex(filename, "."); idx > 0 {
		base = filename[:idx]
	}

	var b strings.Builder
	b.Grow(len(base))
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r - 'A' + 'a')
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
