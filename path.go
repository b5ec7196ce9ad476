package storage

import (
	"encoding/binary"
	"encoding/json"
	"strings"

	"github.com/cespare/xxhash/v2"
	platformerrors "github.com/jmgilman/go/storage/errors"
	"gopkg.in/yaml.v3"
)

// Separator joins segments in the display form of a Path.
const Separator = '/'

// Path identifies a container by the ordered segments leading to it from the
// root of a provider.
//
// A Path is immutable. Every segment is non-empty and contains at least one
// non-whitespace character; no other restriction applies here, backends
// reject what they cannot address when a container is resolved. The zero
// value is the root path.
type Path struct {
	segments []string
}

// Root is the path with no segments.
var Root = Path{}

// NewPath returns a path made of the given segments.
// It fails with CodeInvalidArgument when a segment is empty or consists only
// of whitespace.
func NewPath(segments ...string) (Path, error) {
	if err := validateSegments(segments, 0); err != nil {
		return Path{}, err
	}
	if len(segments) == 0 {
		return Root, nil
	}
	return Path{segments: append([]string(nil), segments...)}, nil
}

// MustPath is like NewPath but panics on invalid segments.
// It is intended for path literals.
func MustPath(segments ...string) Path {
	p, err := NewPath(segments...)
	if err != nil {
		panic(err)
	}
	return p
}

// ParsePath parses the display form produced by String. The empty string is
// the root path. Empty segments, as in "a//b" or a leading "/", are rejected.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return Root, nil
	}
	return NewPath(strings.Split(s, string(Separator))...)
}

func validateSegments(segments []string, offset int) error {
	for i, s := range segments {
		if strings.TrimSpace(s) == "" {
			return platformerrors.WithContext(
				platformerrors.Newf(platformerrors.CodeInvalidArgument,
					"path segment %d is empty or whitespace", offset+i),
				"segment", s,
			)
		}
	}
	return nil
}

// Segments returns a copy of the path's segments.
func (p Path) Segments() []string {
	if len(p.segments) == 0 {
		return []string{}
	}
	return append([]string(nil), p.segments...)
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p.segments)
}

// IsRoot reports whether p has no segments.
func (p Path) IsRoot() bool {
	return len(p.segments) == 0
}

// Name returns the last segment, or "" for the root path.
func (p Path) Name() string {
	if p.IsRoot() {
		return ""
	}
	return p.segments[len(p.segments)-1]
}

// Parent returns the path without its last segment. The root path has no
// parent and returns false.
func (p Path) Parent() (Path, bool) {
	switch len(p.segments) {
	case 0:
		return Path{}, false
	case 1:
		return Root, true
	default:
		return Path{segments: p.segments[:len(p.segments)-1:len(p.segments)-1]}, true
	}
}

// Append returns a new path with segments added after p's segments.
// The new segments are validated like NewPath; p is never modified.
func (p Path) Append(segments ...string) (Path, error) {
	if err := validateSegments(segments, len(p.segments)); err != nil {
		return Path{}, err
	}
	if len(segments) == 0 {
		return p, nil
	}
	joined := make([]string, 0, len(p.segments)+len(segments))
	joined = append(joined, p.segments...)
	joined = append(joined, segments...)
	return Path{segments: joined}, nil
}

// Equal reports whether p and other have the same segments under Ordinal.
func (p Path) Equal(other Path) bool {
	return p.EqualWith(other, Ordinal)
}

// EqualWith reports whether p and other have the same number of segments and
// every pair of segments is equal under c.
func (p Path) EqualWith(other Path, c Comparer) bool {
	if len(p.segments) != len(other.segments) {
		return false
	}
	for i := range p.segments {
		if !SegmentsEqual(p.segments[i], other.segments[i], c) {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix is p or one of p's ancestors under c.
func (p Path) HasPrefix(prefix Path, c Comparer) bool {
	if len(prefix.segments) > len(p.segments) {
		return false
	}
	return Path{segments: p.segments[:len(prefix.segments)]}.EqualWith(prefix, c)
}

// Hash returns the hash of p under Ordinal.
func (p Path) Hash() uint64 {
	return p.HashWith(Ordinal)
}

// HashWith returns a hash of p consistent with EqualWith for the same c.
func (p Path) HashWith(c Comparer) uint64 {
	if c == nil {
		c = Ordinal
	}
	d := xxhash.New()
	var n [8]byte
	for _, s := range p.segments {
		norm := c.Normalize(s)
		binary.LittleEndian.PutUint64(n[:], uint64(len(norm)))
		_, _ = d.Write(n[:])
		_, _ = d.WriteString(norm)
	}
	return d.Sum64()
}

// String returns the segments joined by '/'. The root path renders as "".
func (p Path) String() string {
	return p.Format(Separator)
}

// Format returns the segments joined by sep.
func (p Path) Format(sep rune) string {
	return strings.Join(p.segments, string(sep))
}

// MarshalJSON encodes p as an array of segments.
func (p Path) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Segments())
}

// UnmarshalJSON decodes an array of segments. null decodes to the root path.
func (p *Path) UnmarshalJSON(data []byte) error {
	var segments []string
	if err := json.Unmarshal(data, &segments); err != nil {
		return platformerrors.Wrap(err, platformerrors.CodeInvalidArgument, "path must be an array of segments")
	}
	parsed, err := NewPath(segments...)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// MarshalYAML encodes p as a sequence of segments.
func (p Path) MarshalYAML() (interface{}, error) {
	return p.Segments(), nil
}

// UnmarshalYAML decodes a sequence of segments.
func (p *Path) UnmarshalYAML(value *yaml.Node) error {
	var segments []string
	if err := value.Decode(&segments); err != nil {
		return platformerrors.Wrap(err, platformerrors.CodeInvalidArgument, "path must be a sequence of segments")
	}
	parsed, err := NewPath(segments...)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
