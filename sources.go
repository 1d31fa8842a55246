// Package ntparse finds and loads N-Triples and N-Quads sources.
package ntparse

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// cspell:words nquads

// Format is the format of a source file.
type Format int

const (
	FormatUnknown Format = iota
	FormatNTriples
	FormatNQuads
)

func (f Format) String() string {
	switch f {
	case FormatNTriples:
		return "ntriples"
	case FormatNQuads:
		return "nquads"
	default:
		return "unknown"
	}
}

// FormatOf determines the format of the file at path from its extension.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".nt":
		return FormatNTriples
	case ".nq":
		return FormatNQuads
	default:
		return FormatUnknown
	}
}

var errNoSources = errors.New("need at least one source")

// FindSources finds the source files for the given arguments.
//
// Each argument is either a regular file, which is used regardless of its extension,
// or a directory, in which case all "*.nt" and "*.nq" files directly inside it are used in lexical order.
// FindSources does not guarantee that contents are loadable.
func FindSources(argv ...string) (sources []string, err error) {
	if len(argv) == 0 {
		return nil, errNoSources
	}

	for _, arg := range argv {
		isDir, err := isDirectory(arg)
		if err != nil {
			return nil, err
		}

		if !isDir {
			ok, err := isFile(arg)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, fmt.Errorf("%q is not a regular file", arg)
			}
			sources = append(sources, arg)
			continue
		}

		var found []string
		for _, pattern := range [...]string{"*.nt", "*.nq"} {
			matches, err := filepath.Glob(filepath.Join(arg, pattern))
			if err != nil {
				return nil, err
			}
			found = append(found, matches...)
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("no '*.nt' or '*.nq' files in %q", arg)
		}
		sort.Strings(found)
		sources = append(sources, found...)
	}

	return sources, nil
}

func isDirectory(path string) (ok bool, err error) {
	stats, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return stats.Mode().IsDir(), nil
}

func isFile(path string) (ok bool, err error) {
	stats, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return stats.Mode().IsRegular(), nil
}
