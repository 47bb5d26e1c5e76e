package decoder

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

func TestReader(t *testing.T) {
	original := "동일철강 +29.97%"
	encoded, _, err := transform.Bytes(korean.EUCKR.NewEncoder(), []byte(original))
	require.NoError(t, err)

	decoded, err := io.ReadAll(NewEUCKRDecoder().Reader(bytes.NewReader(encoded)))
	require.NoError(t, err)
	assert.Equal(t, original, string(decoded))
}

func TestReader_PlainASCII(t *testing.T) {
	decoded, err := io.ReadAll(NewEUCKRDecoder().Reader(bytes.NewReader([]byte("KOSPI 006400"))))
	require.NoError(t, err)
	assert.Equal(t, "KOSPI 006400", string(decoded))
}
