package persistable

import (
	"fmt"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// validateUTF8 fails fast with a precise error when s is not valid
// UTF-8, rather than writing invalid bytes a sibling Persistable reader
// (MATLAB/C++/JVM) would choke on. golang.org/x/text's UTF-8 decoder
// replaces every ill-formed sequence (including overlong encodings and
// surrogate halves) with U+FFFD instead of failing, so s is rejected
// when decoding changes it.
func validateUTF8(s string) error {
	decoded, _, err := transform.String(unicode.UTF8.NewDecoder(), s)
	if err != nil {
		return fmt.Errorf("not valid UTF-8: %w", err)
	}
	if decoded != s {
		return fmt.Errorf("not valid UTF-8: ill-formed byte sequence")
	}
	return nil
}

func validateUTF8All(strs []string) error {
	for i, s := range strs {
		if err := validateUTF8(s); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}
