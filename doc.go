// Package storage defines a provider/container model for hierarchical,
// file-system-like storage that is independent of the storage medium.
//
// A Provider resolves a Path into a Container. A Container holds named
// files and child containers, and offers existence checks, creation,
// listing, streaming reads and writes, and deletion. Backends live in their
// own packages:
//
//   - disk: directories and files below a base directory
//   - memory: an in-memory tree, useful in tests
//   - minio: objects in an S3-compatible bucket
//
// # Paths
//
// A Path is an immutable sequence of non-blank segments:
//
//	p, err := storage.NewPath("users", "42", "photos")
//	parent, _ := p.Parent() // users/42
//	p.String()              // "users/42/photos"
//
// Equality and hashing can be made case-insensitive with OrdinalIgnoreCase.
//
// # Containers
//
//	provider, err := disk.New("/var/lib/app")
//	photos, err := provider.Container(p)
//	if err := photos.CreateIfNotExists(ctx); err != nil {
//	    return err
//	}
//	err = storage.WriteFile(ctx, photos, "cat.jpg", data, true)
//
// # Errors
//
// Every failure is a PlatformError from the errors subpackage. Missing items
// report CodeItemNotFound, unaddressable paths report CodeInvalidPath and
// other medium failures report CodeStorage. Caller mistakes such as empty
// file names report CodeInvalidArgument before any I/O happens.
package storage
