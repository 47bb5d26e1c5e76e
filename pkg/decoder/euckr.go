package decoder

import (
	"io"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// EUCKRDecoder converts legacy EUC-KR encoded bytes to UTF-8. Pages served in
// EUC-KR must be decoded before markup parsing: tag boundaries are ASCII-safe
// but cell text is not.
type EUCKRDecoder struct{}

// NewEUCKRDecoder creates a new EUCKRDecoder.
func NewEUCKRDecoder() *EUCKRDecoder {
	return &EUCKRDecoder{}
}

// Reader wraps r so that reads yield UTF-8.
func (d *EUCKRDecoder) Reader(r io.Reader) io.Reader {
	return transform.NewReader(r, korean.EUCKR.NewDecoder())
}
