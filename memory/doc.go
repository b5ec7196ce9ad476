// Package memory implements storage.Provider in memory on top of go-billy's
// memfs.
//
// It behaves like the disk backend: the same segment rules apply, writes
// into a missing container fail with CodeItemNotFound, and overwrite=false
// creates files exclusively. Nothing is persisted.
//
//	p := memory.New()
//	c, _ := p.Container(storage.MustPath("cache"))
//	_ = c.CreateIfNotExists(ctx)
//
// A Provider is safe for concurrent use. A stream returned by OpenRead or
// OpenWrite must not be shared between goroutines.
package memory
