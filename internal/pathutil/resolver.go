// Package pathutil maps container paths onto native file-system paths and
// object store keys.
package pathutil

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/jmgilman/go/storage"
	platformerrors "github.com/jmgilman/go/storage/errors"
)

// invalidChars holds the characters a segment or file name must not contain
// on the native file system: the directory separator, the alternate
// separator, the path list separator and, on Windows, the volume separator.
var invalidChars = func() string {
	chars := string(filepath.Separator) + "/" + string(filepath.ListSeparator) + "\x00"
	if runtime.GOOS == "windows" {
		chars += ":"
	}
	return chars
}()

// CheckName reports why name cannot be used as a single native path element,
// or nil if it can.
func CheckName(name string) error {
	switch name {
	case "":
		return fmt.Errorf("name is empty")
	case ".", "..":
		return fmt.Errorf("name %q refers to a relative directory", name)
	}
	if i := strings.IndexAny(name, invalidChars); i >= 0 {
		return fmt.Errorf("name %q contains the separator character %q", name, name[i])
	}
	return nil
}

// Resolver resolves container paths below a canonical base directory.
type Resolver struct {
	base string
}

// NewResolver canonicalizes base and returns a Resolver for it.
// It fails with CodeInvalidArgument when base is empty or cannot be made
// absolute.
func NewResolver(base string) (*Resolver, error) {
	if base == "" {
		return nil, platformerrors.New(platformerrors.CodeInvalidArgument, "base path must not be empty")
	}
	if strings.ContainsRune(base, 0) {
		return nil, platformerrors.WithContext(
			platformerrors.New(platformerrors.CodeInvalidArgument, "base path contains a NUL byte"),
			"base", base,
		)
	}

	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, platformerrors.WithContext(
			platformerrors.Wrap(err, platformerrors.CodeInvalidArgument, "base path cannot be made absolute"),
			"base", base,
		)
	}
	return &Resolver{base: filepath.Clean(abs)}, nil
}

// Base returns the canonical base directory.
func (r *Resolver) Base() string {
	return r.base
}

// Resolve returns the native directory of p. It fails with CodeInvalidPath
// when a segment cannot be used as a native path element.
func (r *Resolver) Resolve(p storage.Path) (string, error) {
	segments := p.Segments()
	for _, s := range segments {
		if err := CheckName(s); err != nil {
			return "", platformerrors.WithContext(platformerrors.InvalidPath(err), "path", p.String())
		}
	}

	native := filepath.Join(append([]string{r.base}, segments...)...)
	if !r.contains(native) {
		return "", platformerrors.WithContext(
			platformerrors.InvalidPath(fmt.Errorf("%q escapes %q", native, r.base)),
			"path", p.String(),
		)
	}
	return native, nil
}

// ResolveFile returns the native path of the file name inside dir. It fails
// with CodeInvalidArgument when name is empty or cannot be used as a native
// path element.
func ResolveFile(dir, name string) (string, error) {
	if err := CheckName(name); err != nil {
		return "", platformerrors.WithContext(
			platformerrors.Wrap(err, platformerrors.CodeInvalidArgument, "invalid file name"),
			"file", name,
		)
	}
	return filepath.Join(dir, name), nil
}

func (r *Resolver) contains(native string) bool {
	if native == r.base {
		return true
	}
	rel, err := filepath.Rel(r.base, native)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
