package cli

import (
	"io"
	"os"
	"strings"

	"github.com/jmgilman/go/storage"
	platformerrors "github.com/jmgilman/go/storage/errors"
	"github.com/spf13/cobra"
)

// container resolves a display path such as "a/b". Leading and trailing
// slashes are ignored, so "" and "/" both name the root.
func (a *app) container(arg string) (storage.Container, error) {
	path, err := storage.ParsePath(strings.Trim(arg, "/"))
	if err != nil {
		return nil, platformerrors.WithContext(err, "arg", arg)
	}
	return a.provider.Container(path)
}

func optionalArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func (a *app) lsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ls [path]",
		Short: "List the containers and files of a container",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.container(optionalArg(args))
			if err != nil {
				return err
			}

			containers, err := c.ListContainers(ctx)
			if err != nil {
				return err
			}
			files, err := c.ListFiles(ctx)
			if err != nil {
				return err
			}

			return a.printer(cmd).listing(&Listing{
				Path:       c.Path().String(),
				Containers: containers,
				Files:      files,
			})
		},
	}
}

func (a *app) treeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tree [path]",
		Short: "Print a container and everything beneath it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.container(optionalArg(args))
			if err != nil {
				return err
			}
			root, err := buildTree(cmd, c)
			if err != nil {
				return err
			}
			return a.printer(cmd).tree(root)
		},
	}
}

// buildTree walks c into a Node hierarchy. Walk visits a container before
// its files and children, so every parent node exists when it is needed.
func buildTree(cmd *cobra.Command, c storage.Container) (*Node, error) {
	name := c.Path().String()
	if name == "" {
		name = "."
	}
	root := &Node{Name: name}
	nodes := map[string]*Node{c.Path().String(): root}

	err := storage.Walk(cmd.Context(), c, func(c storage.Container, file string) error {
		key := c.Path().String()
		if file != "" {
			nodes[key].Files = append(nodes[key].Files, file)
			return nil
		}
		if _, ok := nodes[key]; ok {
			return nil
		}
		parent, _ := c.Path().Parent()
		node := &Node{Name: c.Path().Name()}
		nodes[key] = node
		nodes[parent.String()].Containers = append(nodes[parent.String()].Containers, node)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return root, nil
}

func (a *app) mkdirCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir <path>",
		Short: "Create a container and its missing ancestors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.container(args[0])
			if err != nil {
				return err
			}
			return c.CreateIfNotExists(cmd.Context())
		},
	}
}

func (a *app) rmdirCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rmdir <path>",
		Short: "Delete a container and everything beneath it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.container(args[0])
			if err != nil {
				return err
			}
			return c.Delete(cmd.Context())
		},
	}
}

func (a *app) catCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cat <path> <file>",
		Short: "Write the contents of a file to stdout",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.container(args[0])
			if err != nil {
				return err
			}
			r, err := c.OpenRead(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			defer func() { _ = r.Close() }()

			if _, err := io.Copy(cmd.OutOrStdout(), r); err != nil {
				return platformerrors.WithContext(
					platformerrors.Wrap(err, platformerrors.CodeStorage, "failed to read file"),
					"file", args[1],
				)
			}
			return nil
		},
	}
}

func (a *app) putCommand() *cobra.Command {
	var (
		from      string
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "put <path> <file>",
		Short: "Write stdin or a local file to a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.container(args[0])
			if err != nil {
				return err
			}

			src := cmd.InOrStdin()
			if from != "" {
				f, err := os.Open(from)
				if err != nil {
					return platformerrors.WithContext(
						platformerrors.Wrap(err, platformerrors.CodeInvalidArgument, "failed to open source file"),
						"from", from,
					)
				}
				defer func() { _ = f.Close() }()
				src = f
			}

			w, err := c.OpenWrite(cmd.Context(), args[1], overwrite)
			if err != nil {
				return err
			}
			if _, err := io.Copy(w, src); err != nil {
				_ = w.Close()
				return platformerrors.WithContext(
					platformerrors.Wrap(err, platformerrors.CodeStorage, "failed to write file"),
					"file", args[1],
				)
			}
			return w.Close()
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "local file to upload instead of stdin")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace the file if it exists")
	return cmd
}

func (a *app) rmCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <path> <file>",
		Short: "Delete a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.container(args[0])
			if err != nil {
				return err
			}
			return c.DeleteFile(cmd.Context(), args[1])
		},
	}
}

func (a *app) cpCommand() *cobra.Command {
	var (
		overwrite   bool
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "cp <src> <dst>",
		Short: "Copy a container and everything beneath it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.container(args[0])
			if err != nil {
				return err
			}
			dst, err := a.container(args[1])
			if err != nil {
				return err
			}
			return storage.Copy(cmd.Context(), src, dst,
				storage.WithCopyOverwrite(overwrite),
				storage.WithCopyConcurrency(concurrency),
			)
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace files that exist in the destination")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "number of files copied at once")
	return cmd
}
