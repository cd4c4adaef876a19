package scaffold

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// maxStemBytes keeps "<stem>_task.<ext>" well under the 255-byte file
// name limit of common file systems.
const maxStemBytes = 100

// Sanitize replaces every rune outside [A-Za-z0-9_-] with an underscore.
// The result is safe as a file name and Sanitize(Sanitize(x)) == Sanitize(x).
func Sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		if isNameRune(r) {
			return r
		}
		return '_'
	}, name)
}

// FileStem returns the base name used for a member's docs and code files:
// the sanitized name, or for names longer than maxStemBytes a prefix of it
// followed by a short hash of the whole sanitized name. Members with the
// same sanitized name share a stem.
func FileStem(member string) string {
	name := Sanitize(member)
	if len(name) <= maxStemBytes {
		return name
	}
	sum := sha256.Sum256([]byte(name))
	suffix := "_" + hex.EncodeToString(sum[:4])
	return name[:maxStemBytes-len(suffix)] + suffix
}

func isNameRune(r rune) bool {
	return r == '_' || r == '-' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

// identifier turns a task description into a function name valid in the
// target language: the sanitized description with dashes folded to
// underscores, a leading underscore before a digit, and a trailing one
// after a reserved word.
func identifier(description string, reserved map[string]bool) string {
	id := strings.ReplaceAll(Sanitize(description), "-", "_")
	switch {
	case id == "":
		return "task"
	case id[0] >= '0' && id[0] <= '9':
		id = "_" + id
	}
	if reserved[id] {
		id += "_"
	}
	return id
}

func wordSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}
