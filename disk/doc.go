// Package disk implements storage.Provider on the local file system.
//
// A container at path [s1, s2, ..., sn] is the directory basePath/s1/s2/.../sn
// and its files are the regular files directly inside that directory. There
// are no sidecar or index files; the directory tree is the whole state.
//
//	p, err := disk.New("/var/lib/app/data")
//	c, err := p.Container(storage.MustPath("users", "42"))
//	err = c.CreateIfNotExists(ctx)
//
// Segments and file names must be usable as a single path element: they
// cannot contain the directory separator, '/', the path list separator, a
// NUL byte or, on Windows, ':', and they cannot be "." or "..". Containers
// therefore never resolve outside the base directory.
//
// Native errors are translated into the storage error taxonomy. ENOENT and
// ENOTDIR become CodeItemNotFound, except for Delete and DeleteFile where a
// missing item is a no-op. EEXIST under overwrite=false becomes CodeStorage
// wrapping fs.ErrExist. Everything else becomes CodeStorage wrapping the
// native *fs.PathError.
package disk
