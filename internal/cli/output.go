package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	platformerrors "github.com/jmgilman/go/storage/errors"
	"gopkg.in/yaml.v3"
)

// Listing is the result of ls.
type Listing struct {
	Path       string   `json:"path" yaml:"path"`
	Containers []string `json:"containers" yaml:"containers"`
	Files      []string `json:"files" yaml:"files"`
}

// Node is one container of the result of tree.
type Node struct {
	Name       string   `json:"name" yaml:"name"`
	Files      []string `json:"files,omitempty" yaml:"files,omitempty"`
	Containers []*Node  `json:"containers,omitempty" yaml:"containers,omitempty"`
}

// printer renders command results in the configured format.
type printer struct {
	w      io.Writer
	format string
}

// print writes v as JSON or YAML, or calls text for the text format.
func (p printer) print(v any, text func(w io.Writer) error) error {
	switch p.format {
	case OutputJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case OutputYAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return text(p.w)
	}
}

func (p printer) listing(l *Listing) error {
	return p.print(l, func(w io.Writer) error {
		for _, c := range l.Containers {
			if _, err := fmt.Fprintf(w, "%s/\n", c); err != nil {
				return err
			}
		}
		for _, f := range l.Files {
			if _, err := fmt.Fprintln(w, f); err != nil {
				return err
			}
		}
		return nil
	})
}

func (p printer) tree(n *Node) error {
	return p.print(n, func(w io.Writer) error {
		return writeTree(w, n, 0)
	})
}

func writeTree(w io.Writer, n *Node, depth int) error {
	indent := strings.Repeat("  ", depth)
	if _, err := fmt.Fprintf(w, "%s%s/\n", indent, n.Name); err != nil {
		return err
	}
	for _, f := range n.Files {
		if _, err := fmt.Fprintf(w, "%s  %s\n", indent, f); err != nil {
			return err
		}
	}
	for _, c := range n.Containers {
		if err := writeTree(w, c, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// printError renders cause to w. The text format prints "[CODE] message".
func printError(w io.Writer, format string, cause error) {
	p := printer{w: w, format: format}
	_ = p.print(platformerrors.ToJSON(cause), func(w io.Writer) error {
		_, err := fmt.Fprintln(w, cause)
		return err
	})
}
