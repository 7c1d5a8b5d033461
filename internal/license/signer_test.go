package license

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
)

// testSigner mints license keys with a throwaway RSA key so round-trip
// tests exercise the same codec and verifier paths as production keys.
type testSigner struct {
	priv *rsa.PrivateKey
}

func newTestSigner(t *testing.T) *testSigner {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return &testSigner{priv: priv}
}

func (s *testSigner) verifier() *Verifier {
	return NewVerifier(WithPublicKey(&s.priv.PublicKey))
}

func (s *testSigner) sign(t *testing.T, payload []byte) []byte {
	t.Helper()
	digest := sha1.Sum(payload)
	sig, err := rsa.SignPKCS1v15(rand.Reader, s.priv, crypto.SHA1, digest[:])
	require.NoError(t, err)
	return sig
}

func encodeUTF16LE(t *testing.T, text string) []byte {
	t.Helper()
	out, err := utf16le.NewEncoder().Bytes([]byte(text))
	require.NoError(t, err)
	return out
}

func fileTimeBytes(end time.Time) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, uint64(utcToFileTime(end)))
	return b
}

// v1Blocks is the decoded layout of a V1 key, exposed so tests can
// tamper with individual blocks before assembly.
type v1Blocks struct {
	date       []byte
	limitation []byte
	notice     []byte
	signature  []byte
}

func (s *testSigner) v1Blocks(t *testing.T, end time.Time, limitation, notice string) v1Blocks {
	t.Helper()
	b := v1Blocks{
		date:       fileTimeBytes(end),
		limitation: encodeUTF16LE(t, limitation),
		notice:     encodeUTF16LE(t, notice),
	}
	payload := bytes.Join([][]byte{b.date, b.limitation, b.notice}, nil)
	b.signature = s.sign(t, payload)
	return b
}

func assembleV1(t *testing.T, b v1Blocks) string {
	t.Helper()
	var buf bytes.Buffer
	for _, block := range [][]byte{b.date, b.limitation, b.notice, b.signature} {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(len(block))))
	}
	for _, block := range [][]byte{b.date, b.limitation, b.notice, b.signature} {
		buf.Write(block)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func (s *testSigner) v1Key(t *testing.T, end time.Time, limitation, notice string) string {
	t.Helper()
	return assembleV1(t, s.v1Blocks(t, end, limitation, notice))
}

// testRecord is one (type, value) pair of a V2 stream.
type testRecord struct {
	typ   uint32
	value []byte
}

func endTimeRecord(end time.Time) testRecord {
	return testRecord{typ: recordEndTime, value: fileTimeBytes(end)}
}

func textRecord(t *testing.T, typ uint32, text string) testRecord {
	return testRecord{typ: typ, value: encodeUTF16LE(t, text)}
}

func domainLimitRecord(limit uint32) testRecord {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, limit)
	return testRecord{typ: recordDomainNumberLimit, value: b}
}

func encodeRecord(rec testRecord) []byte {
	out := make([]byte, 8+len(rec.value))
	binary.LittleEndian.PutUint32(out[:4], rec.typ)
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(rec.value)))
	copy(out[8:], rec.value)
	return out
}

// v2Stream concatenates the encoded records and signs them, returning
// the uncompressed stream without its signature record and the
// signature bytes separately. Tests tamper between the two steps.
func (s *testSigner) v2Stream(t *testing.T, records ...testRecord) ([]byte, []byte) {
	t.Helper()
	var stream bytes.Buffer
	for _, rec := range records {
		stream.Write(encodeRecord(rec))
	}
	return stream.Bytes(), s.sign(t, stream.Bytes())
}

// finishV2 appends the signature record plus any trailing bytes,
// compresses the stream and produces the tagged key string.
func finishV2(t *testing.T, stream, signature, trailing []byte) string {
	t.Helper()
	var full bytes.Buffer
	full.Write(stream)
	if signature != nil {
		full.Write(encodeRecord(testRecord{typ: recordSignature, value: signature}))
	}
	full.Write(trailing)

	var compressed bytes.Buffer
	w, err := flate.NewWriter(&compressed, flate.DefaultCompression)
	require.NoError(t, err)
	_, err = w.Write(full.Bytes())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return v2Prefix + base64.StdEncoding.EncodeToString(compressed.Bytes())
}

func (s *testSigner) v2Key(t *testing.T, records ...testRecord) string {
	t.Helper()
	stream, signature := s.v2Stream(t, records...)
	return finishV2(t, stream, signature, nil)
}
