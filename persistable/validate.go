package persistable

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// prepareRecord validates rec's subtree before any HDF5 write begins:
// UTF-8 strings are checked and every record array's element schemas are
// compared against each other. Validation is read-only, so it is safe to
// fan a record's fields out across goroutines (spec §5) even though the
// encode that follows is strictly sequential -- the underlying file
// writer is not safe for concurrent use.
func prepareRecord(rec Record) error {
	g := new(errgroup.Group)
	for _, f := range rec.Fields {
		f := f
		g.Go(func() error {
			if err := validateValue(f.Value); err != nil {
				return fmt.Errorf("field %q: %w", f.Name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func validateValue(v Value) error {
	switch t := v.(type) {
	case Empty:
		return nil
	case Scalar:
		if t.DType == DTString {
			s, ok := t.V.(string)
			if !ok {
				return fmt.Errorf("%w: scalar tagged DTString holds %T", ErrUnsupportedValue, t.V)
			}
			return validateUTF8(s)
		}
		return nil
	case NumArray:
		return nil
	case BoolArray:
		return nil
	case StrArray:
		return validateUTF8All(t.Data)
	case Record:
		return prepareRecord(t)
	case RecordArray:
		if err := validateRecordArraySchema(t); err != nil {
			return err
		}
		g := new(errgroup.Group)
		for _, rec := range t.Data {
			rec := rec
			g.Go(func() error { return prepareRecord(rec) })
		}
		return g.Wait()
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}
