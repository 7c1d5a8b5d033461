// Package testutil provides test fixtures shared across packages,
// chiefly an issuer that mints signed license keys with a throwaway
// RSA key.
package testutil

import (
	"bytes"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"encoding/base64"
	"encoding/binary"
	"testing"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

var fileTimeEpoch = time.Date(1601, time.January, 1, 0, 0, 0, 0, time.UTC)

// Issuer signs license keys for tests. Pair it with
// license.WithPublicKey(issuer.PublicKey()).
type Issuer struct {
	priv *rsa.PrivateKey
}

// NewIssuer generates a fresh signing key.
func NewIssuer(t *testing.T) *Issuer {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return &Issuer{priv: priv}
}

// PublicKey returns the verification half of the issuer key.
func (i *Issuer) PublicKey() *rsa.PublicKey {
	return &i.priv.PublicKey
}

// V1Key mints a fixed-field key.
func (i *Issuer) V1Key(t *testing.T, end time.Time, limitation, notice string) string {
	t.Helper()
	blocks := [][]byte{
		fileTimeBytes(end),
		encodeText(t, limitation),
		encodeText(t, notice),
	}
	payload := bytes.Join(blocks, nil)
	blocks = append(blocks, i.sign(t, payload))

	var buf bytes.Buffer
	for _, b := range blocks {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(len(b))))
	}
	for _, b := range blocks {
		buf.Write(b)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

// V2Fields selects the records of a minted V2 key. Nil pointers omit
// the record entirely.
type V2Fields struct {
	EndTime          time.Time
	DomainLimitation *string
	CustomerNotice   *string
	Edition          *string
	DomainLimit      *uint32
}

// V2Key mints a tagged-record key.
func (i *Issuer) V2Key(t *testing.T, fields V2Fields) string {
	t.Helper()
	var stream bytes.Buffer
	writeRecord(&stream, 1, fileTimeBytes(fields.EndTime))
	if fields.DomainLimitation != nil {
		writeRecord(&stream, 2, encodeText(t, *fields.DomainLimitation))
	}
	if fields.CustomerNotice != nil {
		writeRecord(&stream, 3, encodeText(t, *fields.CustomerNotice))
	}
	if fields.Edition != nil {
		writeRecord(&stream, 4, encodeText(t, *fields.Edition))
	}
	if fields.DomainLimit != nil {
		limit := make([]byte, 4)
		binary.LittleEndian.PutUint32(limit, *fields.DomainLimit)
		writeRecord(&stream, 5, limit)
	}
	writeRecord(&stream, 0, i.sign(t, stream.Bytes()))

	var compressed bytes.Buffer
	w, err := flate.NewWriter(&compressed, flate.DefaultCompression)
	require.NoError(t, err)
	_, err = w.Write(stream.Bytes())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return "PC2" + base64.StdEncoding.EncodeToString(compressed.Bytes())
}

func (i *Issuer) sign(t *testing.T, payload []byte) []byte {
	t.Helper()
	digest := sha1.Sum(payload)
	sig, err := rsa.SignPKCS1v15(rand.Reader, i.priv, crypto.SHA1, digest[:])
	require.NoError(t, err)
	return sig
}

func writeRecord(buf *bytes.Buffer, typ uint32, value []byte) {
	header := make([]byte, 8)
	binary.LittleEndian.PutUint32(header[:4], typ)
	binary.LittleEndian.PutUint32(header[4:], uint32(len(value)))
	buf.Write(header)
	buf.Write(value)
}

func encodeText(t *testing.T, text string) []byte {
	t.Helper()
	out, err := utf16le.NewEncoder().Bytes([]byte(text))
	require.NoError(t, err)
	return out
}

func fileTimeBytes(end time.Time) []byte {
	ticks := end.UTC().Sub(fileTimeEpoch).Nanoseconds() / 100
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, uint64(ticks))
	return b
}

// Ptr returns a pointer to v, for building V2Fields literals.
func Ptr[T any](v T) *T { return &v }
