package storage

import (
	platformerrors "github.com/jmgilman/go/storage/errors"
)

// Provider resolves paths into containers of one storage medium.
//
// Resolution performs no I/O: the returned container may or may not exist.
// Implementations fail with CodeInvalidPath when a path cannot be mapped
// onto their addressing scheme.
type Provider interface {
	// Container returns the container identified by path.
	Container(path Path) (Container, error)
}

// RootContainer returns the container at the root of p.
func RootContainer(p Provider) (Container, error) {
	return p.Container(Root)
}

// ContainerFunc resolves the path built by selector, starting from Root.
//
//	photos, err := storage.ContainerFunc(p, func(root storage.Path) (storage.Path, error) {
//	    return root.Append("users", userID, "photos")
//	})
//
// A nil selector fails with CodeInvalidArgument. Errors returned by selector
// are passed through.
func ContainerFunc(p Provider, selector func(root Path) (Path, error)) (Container, error) {
	if selector == nil {
		return nil, platformerrors.New(platformerrors.CodeInvalidArgument, "path selector must not be nil")
	}
	path, err := selector(Root)
	if err != nil {
		return nil, err
	}
	return p.Container(path)
}
