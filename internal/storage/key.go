package storage

import (
	"fmt"
	"path"
	"strings"
)

// CleanKey normalises key and rejects empty, absolute or traversing keys.
func CleanKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	key = strings.ReplaceAll(key, "\\", "/")
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("%w: absolute key %q", ErrInvalidKey, key)
	}
	clean := path.Clean(key)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: key %q escapes root", ErrInvalidKey, key)
	}
	return clean, nil
}

// JoinKey joins a prefix and name into a key. An empty prefix yields name.
func JoinKey(prefix, name string) string {
	prefix = strings.Trim(strings.ReplaceAll(prefix, "\\", "/"), "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
