package filesystem

import (
	"net/url"
	"strings"
)

// ResolvePath converts a file:// URI or bare path to a local path.
// Percent-escapes in file:// URIs are decoded; bare paths pass through unchanged.
func ResolvePath(identifier string) string {
	rest, ok := strings.CutPrefix(identifier, "file://")
	if !ok {
		return identifier
	}
	rest = strings.TrimPrefix(rest, "localhost")
	if decoded, err := url.PathUnescape(rest); err == nil {
		return decoded
	}
	return rest
}

// IsLocal reports whether identifier names a local file rather than a URL.
func IsLocal(identifier string) bool {
	if strings.HasPrefix(identifier, "file://") {
		return true
	}
	u, err := url.Parse(identifier)
	if err != nil {
		return false
	}
	// Single-letter schemes are Windows drive letters.
	return u.Scheme == "" || len(u.Scheme) == 1
}
