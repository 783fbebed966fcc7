package persistable

import (
	"fmt"

	"github.com/ziggy-module/hdf5persist/hdf5"
)

// Codec reads and writes Persistable-dialect HDF5 files: a bidirectional
// mapping between Value trees and HDF5 groups/datasets, wire-compatible
// with the MATLAB/C++/JVM siblings of this format (spec §1, §6).
type Codec struct {
	opts Options
}

// NewCodec builds a Codec from functional options (spec §4.5).
func NewCodec(opts ...Option) *Codec {
	return &Codec{opts: NewOptions(opts...)}
}

// SetOption applies additional options to an existing Codec.
func (c *Codec) SetOption(opts ...Option) {
	for _, opt := range opts {
		opt(&c.opts)
	}
}

// Write creates path and writes v, a Record, as the file's root group.
// The file is closed on every exit path, including a failed encode.
func (c *Codec) Write(path string, v Value) error {
	rec, ok := v.(Record)
	if !ok {
		return fmt.Errorf("%w: root value must be a Record, got %T", ErrUnsupportedValue, v)
	}

	f, err := hdf5.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := prepareRecord(rec); err != nil {
		return fmt.Errorf("validating %s: %w", path, err)
	}

	if err := encodeRecord(f.Root(), rec, c.opts); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	if err := f.Flush(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return nil
}

// Read opens path and decodes the group at groupPath ("/" for the file's
// root group) into a Value. The file is closed on every exit path.
func (c *Codec) Read(path string, groupPath string) (Value, error) {
	f, err := hdf5.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	g, err := resolveGroup(f.Root(), groupPath)
	if err != nil {
		return nil, fmt.Errorf("resolving %s in %s: %w", groupPath, path, err)
	}

	v, err := decodeGroup(g, c.opts)
	if err != nil {
		return nil, fmt.Errorf("reading %s in %s: %w", groupPath, path, err)
	}
	return v, nil
}

// resolveGroup walks groupPath one segment at a time, always descending on
// the freshly-opened child group rather than re-resolving a name against
// the parent on every step (the bug the original hdf5mi _find_group had).
func resolveGroup(root *hdf5.Group, groupPath string) (*hdf5.Group, error) {
	segments := splitGroupPath(groupPath)
	g := root
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		child, err := g.OpenGroup(seg)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, seg)
		}
		g = child
	}
	return g, nil
}

func splitGroupPath(groupPath string) []string {
	if groupPath == "" || groupPath == "/" {
		return nil
	}
	var segments []string
	start := 0
	for i := 0; i < len(groupPath); i++ {
		if groupPath[i] == '/' {
			if i > start {
				segments = append(segments, groupPath[start:i])
			}
			start = i + 1
		}
	}
	if start < len(groupPath) {
		segments = append(segments, groupPath[start:])
	}
	return segments
}
