package license

import (
	"fmt"

	"golang.org/x/text/encoding/unicode"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// decodeUTF16LE decodes license text fields, which are stored as
// UTF-16 little-endian without a BOM. An empty block decodes to "".
func decodeUTF16LE(b []byte) (string, error) {
	if len(b) == 0 {
		return "", nil
	}
	out, err := utf16le.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("%w: invalid UTF-16 text: %v", ErrMalformedLicense, err)
	}
	return string(out), nil
}
