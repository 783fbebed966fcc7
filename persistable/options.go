package persistable

// Options is the plain configuration record carried by both encoder and
// decoder (spec §4.5). The first two fields affect only Write; the last
// two affect only Read. None of them alter the wire format's semantics,
// only the decoder's in-memory representation or the encoder's
// byte-level choices.
type Options struct {
	CompressionLevel        int
	CompressionMinElements  int
	ReconstituteStructArray bool
	PreserveFieldOrder      bool
}

// Option configures an Options value, mirroring hdf5.FileOption and
// hdf5.DatasetOption's functional-options style.
type Option func(*Options)

// WithCompressionLevel sets the gzip level (0-9); 0 disables
// compression regardless of array size. Write passes a nonzero level to
// hdf5.WithCompression, but the dataset writer it uses stores every
// dataset contiguously and uncompressed, so the level does not change
// the bytes written.
func WithCompressionLevel(level int) Option {
	return func(o *Options) {
		if level >= 0 && level <= 9 {
			o.CompressionLevel = level
		}
	}
}

// WithCompressionMinElements sets the element count a numeric array
// must exceed before compression is requested.
func WithCompressionMinElements(n int) Option {
	return func(o *Options) {
		if n >= 0 {
			o.CompressionMinElements = n
		}
	}
}

// WithReconstituteStructArray controls whether Read transposes a
// parallelisable record array's on-disk record-of-arrays back into an
// array-of-records.
func WithReconstituteStructArray(b bool) Option {
	return func(o *Options) {
		o.ReconstituteStructArray = b
	}
}

// WithPreserveFieldOrder controls whether Read returns record fields in
// their original insertion order (true) or ascending name order (false).
func WithPreserveFieldOrder(b bool) Option {
	return func(o *Options) {
		o.PreserveFieldOrder = b
	}
}

// NewOptions builds an Options value from functional options, starting
// from the documented defaults: CompressionLevel=0,
// CompressionMinElements=0, ReconstituteStructArray=false,
// PreserveFieldOrder=true.
func NewOptions(opts ...Option) Options {
	o := Options{
		CompressionLevel:        0,
		CompressionMinElements:  0,
		ReconstituteStructArray: false,
		PreserveFieldOrder:      true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
