package pathutil

import (
	"fmt"
	"path"
	"strings"

	"github.com/jmgilman/go/storage"
)

// NormalizePrefix normalizes an object key prefix:
// - Converts backslashes to forward slashes
// - Removes leading and trailing slashes
// - Returns empty string if prefix is "." or empty.
func NormalizePrefix(prefix string) string {
	if prefix == "" || prefix == "." {
		return ""
	}

	prefix = strings.ReplaceAll(prefix, "\\", "/")
	prefix = strings.Trim(path.Clean(prefix), "/")
	if prefix == "." {
		return ""
	}
	return prefix
}

// CheckKeyName reports why name cannot be used as a single object key
// element, or nil if it can.
func CheckKeyName(name string) error {
	switch name {
	case "":
		return fmt.Errorf("name is empty")
	case ".", "..":
		return fmt.Errorf("name %q refers to a relative directory", name)
	}
	if strings.ContainsAny(name, "/\x00") {
		return fmt.Errorf("name %q contains a '/' or NUL character", name)
	}
	return nil
}

// ContainerKey returns the key prefix of the container at p, ending with a
// slash. The root container of an unprefixed bucket has the empty key.
func ContainerKey(prefix string, p storage.Path) string {
	var b strings.Builder
	if prefix != "" {
		b.WriteString(prefix)
		b.WriteByte('/')
	}
	for _, s := range p.Segments() {
		b.WriteString(s)
		b.WriteByte('/')
	}
	return b.String()
}

// FileKey returns the key of the file name inside the container whose key
// prefix is containerKey.
func FileKey(containerKey, name string) string {
	return containerKey + name
}

// ChildName returns the first key element below containerKey and whether
// the element is followed by more elements (a container) or not (a file).
// Keys outside containerKey and the container's own marker return "".
func ChildName(containerKey, key string) (name string, isContainer bool) {
	rest, ok := strings.CutPrefix(key, containerKey)
	if !ok || rest == "" {
		return "", false
	}
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		return rest[:i], true
	}
	return rest, false
}
