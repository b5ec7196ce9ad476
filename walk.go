package storage

import (
	"context"
	"errors"
)

// SkipContainer can be returned by a WalkFunc visiting a container to skip
// the container's contents.
var SkipContainer = errors.New("skip this container")

// WalkFunc is called by Walk for every container and file. For a container,
// name is "". For a file, name is the file name inside c.
type WalkFunc func(c Container, name string) error

// Walk visits root and everything beneath it, depth first and in lexical
// order. Inside a container, files are visited before child containers.
//
// Any error returned by fn other than SkipContainer stops the walk and is
// returned by Walk.
func Walk(ctx context.Context, root Container, fn WalkFunc) error {
	err := walk(ctx, root, fn)
	if errors.Is(err, SkipContainer) {
		return nil
	}
	return err
}

func walk(ctx context.Context, c Container, fn WalkFunc) error {
	if err := fn(c, ""); err != nil {
		return err
	}

	files, err := c.ListFiles(ctx)
	if err != nil {
		return err
	}
	for _, name := range files {
		if err := fn(c, name); err != nil {
			return err
		}
	}

	children, err := c.ListContainers(ctx)
	if err != nil {
		return err
	}
	for _, name := range children {
		child, err := Join(c, name)
		if err != nil {
			return err
		}
		if err := walk(ctx, child, fn); err != nil && !errors.Is(err, SkipContainer) {
			return err
		}
	}
	return nil
}
