package mapping

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPath is returned for registration paths that cannot be parsed.
var ErrInvalidPath = errors.New("invalid mapping path")

// Path is a parsed registration path.
type Path struct {
	Segments []string
	// ElementWise is set by a trailing "[]" and marks every target of the
	// registered entry as applied per element.
	ElementWise bool
}

// ParsePath parses a registration path.
// Supports: "author", "tags[]", "blocks.title", "blocks.hero.image[]".
func ParsePath(path string) (Path, error) {
	s := strings.TrimSpace(path)
	if s == "" {
		return Path{}, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	var p Path

	if rest, ok := strings.CutSuffix(s, ElementWiseSuffix); ok {
		p.ElementWise = true
		s = rest
	}

	for part := range strings.SplitSeq(s, ".") {
		if part == "" {
			return Path{}, fmt.Errorf("%w %q: empty segment", ErrInvalidPath, path)
		}

		if strings.ContainsAny(part, "[] \t\r\n") {
			return Path{}, fmt.Errorf("%w %q: invalid segment %q", ErrInvalidPath, path, part)
		}

		p.Segments = append(p.Segments, part)
	}

	return p, nil
}

// Key returns the canonical registration key: segments joined by dots,
// without the element-wise marker.
func (p Path) Key() string {
	return strings.Join(p.Segments, ".")
}

// Head returns the first segment.
func (p Path) Head() string {
	return p.Segments[0]
}

// Tail returns the path without its first segment.
func (p Path) Tail() Path {
	return Path{Segments: p.Segments[1:], ElementWise: p.ElementWise}
}

// IsNested reports whether the path has more than one segment.
func (p Path) IsNested() bool {
	return len(p.Segments) > 1
}

// String renders the path in its declaration syntax.
func (p Path) String() string {
	if p.ElementWise {
		return p.Key() + ElementWiseSuffix
	}

	return p.Key()
}
