package message

import (
	"github.com/ziggy-module/hdf5persist/internal/binary"
)

// NewFilterPipeline creates a filter pipeline message containing the given filters.
// Always uses version 2 encoding (no per-filter name, no v1 padding), matching what
// parseFilterInfo expects for Version != 1.
func NewFilterPipeline(filters []FilterInfo) *FilterPipeline {
	return &FilterPipeline{
		Version: 2,
		Filters: filters,
	}
}

// Serialize writes the FilterPipeline message to the writer using version 2 encoding.
func (m *FilterPipeline) Serialize(w *binary.Writer) error {
	if err := w.WriteUint8(2); err != nil { // Version 2
		return err
	}
	if err := w.WriteUint8(uint8(len(m.Filters))); err != nil {
		return err
	}

	for _, f := range m.Filters {
		if err := w.WriteUint16(f.ID); err != nil {
			return err
		}
		if f.ID >= 256 {
			nameLen := uint16(len(f.Name) + 1)
			if err := w.WriteUint16(nameLen); err != nil {
				return err
			}
		}
		if err := w.WriteUint16(f.Flags); err != nil {
			return err
		}
		if err := w.WriteUint16(uint16(len(f.ClientData))); err != nil {
			return err
		}
		if f.ID >= 256 {
			if err := w.WriteBytes([]byte(f.Name)); err != nil {
				return err
			}
			if err := w.WriteUint8(0); err != nil {
				return err
			}
		}
		for _, cd := range f.ClientData {
			if err := w.WriteUint32(cd); err != nil {
				return err
			}
		}
	}

	return nil
}

// SerializedSize returns the size in bytes when serialized.
func (m *FilterPipeline) SerializedSize(w *binary.Writer) int {
	size := 2 // version + num filters
	for _, f := range m.Filters {
		size += 2 + 2 + 2 // id, flags, numClientData
		if f.ID >= 256 {
			size += 2 + len(f.Name) + 1
		}
		size += 4 * len(f.ClientData)
	}
	return size
}
