package persistable

import "errors"

// Sentinel error kinds named in spec §4.3/§4.4/§7. Call sites wrap these
// with fmt.Errorf("...: %w", ErrX) to name the offending path or
// attribute; callers use errors.Is to test the kind.
var (
	ErrUnknownDType             = errors.New("persistable: unknown dtype tag")
	ErrHeterogeneousRecordArray = errors.New("persistable: heterogeneous record array")
	ErrUnsupportedValue         = errors.New("persistable: unsupported value variant")
	ErrGroupNotFound            = errors.New("persistable: group not found")
	ErrMissingDataType          = errors.New("persistable: missing DATA_TYPE attribute")
	ErrFieldOrderGap            = errors.New("persistable: gap in FIELD_ORDER sequence")
	ErrMalformedStructArrayName = errors.New("persistable: malformed struct array element name")
	ErrShapeMismatch            = errors.New("persistable: parallel array field shape mismatch")
)
