package threadparser

import (
	"strconv"
	"strings"
)

// parseIDSkipPrefix strips the first n bytes of s and parses the remainder
// as a base-10 uint32. Used by FourChan, whose ids like "pc123" carry a
// fixed 2-char site prefix before the numeric post id.
func parseIDSkipPrefix(s string, n int) (uint32, bool) {
	if len(s) <= n {
		return 0, false
	}
	return parseUint32(s[n:])
}

// parseIDWithPrefix strips prefix from s, if present, and parses the
// remainder as a base-10 uint32.
func parseIDWithPrefix(s, prefix string) (uint32, bool) {
	rest, ok := strings.CutPrefix(s, prefix)
	if !ok {
		return 0, false
	}
	return parseUint32(rest)
}

// parseIDAnyOfPrefixes tries each prefix in order, falling back to treating
// s as a bare numeric id if none match (Kusabax: "reply_N" or bare digits).
func parseIDAnyOfPrefixes(s string, prefixes ...string) (uint32, bool) {
	for _, prefix := range prefixes {
		if id, ok := parseIDWithPrefix(s, prefix); ok {
			return id, true
		}
	}
	return parseUint32(s)
}

func parseUint32(s string) (uint32, bool) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}
