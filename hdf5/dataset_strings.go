package hdf5

import (
	"fmt"
	"path"

	"github.com/ziggy-module/hdf5persist/internal/heap"
	"github.com/ziggy-module/hdf5persist/internal/message"
	"github.com/ziggy-module/hdf5persist/internal/object"
)

// CreateVarLenStringDataset creates a new dataset of UTF-8 variable-length
// strings backed by the file's global heap. Unlike CreateDataset, which only
// produces fixed-length ASCII string datasets, this stores each string in a
// global heap (GCOL) collection and writes a global heap reference
// (sequence length + heap address + object index) per element in the
// dataset's raw data. dims describes the dataset's shape; len(strs) must
// equal the product of dims.
func (g *Group) CreateVarLenStringDataset(name string, strs []string, dims []uint64) (*Dataset, error) {
	if !g.file.writable {
		return nil, fmt.Errorf("file is not writable")
	}
	if name == "" {
		return nil, fmt.Errorf("dataset name cannot be empty")
	}

	numElements := uint64(1)
	for _, d := range dims {
		numElements *= d
	}
	if numElements != uint64(len(strs)) {
		return nil, fmt.Errorf("dimension mismatch: dims imply %d elements, got %d strings", numElements, len(strs))
	}

	datatype := message.NewVarLenStringDatatype(message.CharsetUTF8)
	dataspace := message.NewDataspace(dims, nil)

	offsetSize := g.file.writer.OffsetSize()
	refSize := 4 + offsetSize + 4
	raw := make([]byte, len(strs)*refSize)

	if len(strs) > 0 {
		ghw := heap.NewGlobalHeapWriter(g.file.writer, g.file.allocate)
		indices := make([]uint16, len(strs))
		for i, s := range strs {
			indices[i] = ghw.AddString(s)
		}

		heapIDs, err := ghw.Write()
		if err != nil {
			return nil, fmt.Errorf("writing global heap: %w", err)
		}

		for i, s := range strs {
			id := heapIDs[indices[i]]
			off := i * refSize
			putLE(raw[off:off+4], uint64(len(s)), 4)
			putLE(raw[off+4:off+4+offsetSize], id.CollectionAddress, offsetSize)
			putLE(raw[off+4+offsetSize:off+refSize], uint64(id.ObjectIndex), 4)
		}
	}

	dataAddr := g.file.allocate(int64(len(raw)))
	w := g.file.writer.At(int64(dataAddr))
	if err := w.WriteBytes(raw); err != nil {
		return nil, fmt.Errorf("writing var-len string references: %w", err)
	}

	dataLayout := message.NewContiguousLayout(dataAddr, uint64(len(raw)))
	messages := object.NewDatasetHeader(dataspace, datatype, dataLayout)

	headerSize := object.HeaderSize(g.file.writer, messages)
	datasetAddr := g.file.allocate(int64(headerSize))

	hw := g.file.writer.At(int64(datasetAddr))
	if _, err := object.WriteHeader(hw, messages); err != nil {
		return nil, fmt.Errorf("writing dataset header: %w", err)
	}

	link := message.NewHardLink(name, datasetAddr)
	if err := g.addLink(link); err != nil {
		return nil, fmt.Errorf("adding link to parent: %w", err)
	}

	newPath := path.Join(g.path, name)
	if g.path == "/" {
		newPath = "/" + name
	}

	return &Dataset{
		file:      g.file,
		path:      newPath,
		header:    nil,
		dataspace: dataspace,
		datatype:  datatype,
		layout:    nil,
	}, nil
}

// putLE writes the low n bytes of v into buf in little-endian order.
// The file format is always little-endian (see Create in file_write.go).
func putLE(buf []byte, v uint64, n int) {
	for i := 0; i < n; i++ {
		buf[i] = byte(v >> (8 * i))
	}
}
