package license

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want format
	}{
		{name: "empty key", key: "", want: formatMissing},
		{name: "v2 tag", key: "PC2AAAA", want: formatV2},
		{name: "bare v2 tag", key: "PC2", want: formatV2},
		{name: "future tag", key: "PC3AAAA", want: formatUnsupported},
		{name: "older tag", key: "PC1AAAA", want: formatUnsupported},
		{name: "untagged base64", key: "AAAABBBB", want: formatV1},
		{name: "tag-like but not a digit", key: "PCxAAAA", want: formatV1},
		{name: "short key", key: "PC", want: formatV1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectFormat(tt.key))
		})
	}
}

func TestVerifyMissingKey(t *testing.T) {
	_, err := NewVerifier().Verify("")
	require.ErrorIs(t, err, ErrMissingLicense)
}

func TestVerifyUnsupportedTag(t *testing.T) {
	_, err := NewVerifier().Verify("PC3irrelevant")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

// The worked expiration example: a V1 key carrying 2030-01-01T00:00:00Z,
// the contoso.com restriction and an evaluation notice round-trips to
// exactly those attributes.
func TestVerifyV1Example(t *testing.T) {
	signer := newTestSigner(t)
	end := time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)
	key := signer.v1Key(t, end, "contoso.com", "Evaluation")

	lic, err := signer.verifier().Verify(key)
	require.NoError(t, err)

	assert.Equal(t, end, lic.EndTime())
	limitation, ok := lic.DomainLimitation()
	assert.True(t, ok)
	assert.Equal(t, "contoso.com", limitation)
	notice, ok := lic.CustomerNotice()
	assert.True(t, ok)
	assert.Equal(t, "Evaluation", notice)
	assert.Equal(t, key, lic.Key())

	_, ok = lic.Edition()
	assert.False(t, ok, "V1 keys carry no edition")
	_, ok = lic.DomainNumberLimit()
	assert.False(t, ok, "V1 keys carry no domain limit")
}

// Keys signed by anything other than the embedded production key must
// fail against the default verifier.
func TestVerifyRejectsForeignSigner(t *testing.T) {
	signer := newTestSigner(t)
	key := signer.v1Key(t, time.Now().Add(24*time.Hour), "example.org", "")

	_, err := Verify(key)
	require.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestLicenseExpired(t *testing.T) {
	signer := newTestSigner(t)
	end := time.Date(2027, time.June, 1, 0, 0, 0, 0, time.UTC)
	lic, err := signer.verifier().Verify(signer.v1Key(t, end, "", ""))
	require.NoError(t, err)

	assert.False(t, lic.Expired(end.Add(-time.Second)))
	assert.True(t, lic.Expired(end.Add(time.Second)))
}

// A verified license is read-only; concurrent readers need no locking.
func TestLicenseConcurrentReads(t *testing.T) {
	signer := newTestSigner(t)
	lic, err := signer.verifier().Verify(signer.v1Key(t, time.Now(), "contoso.com", "notice"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = lic.EndTime()
				_, _ = lic.DomainLimitation()
				_, _ = lic.CustomerNotice()
				_, _ = lic.Edition()
				_, _ = lic.DomainNumberLimit()
			}
		}()
	}
	wg.Wait()
}

func TestFailureReason(t *testing.T) {
	signer := newTestSigner(t)
	v := signer.verifier()

	_, err := v.Verify("")
	assert.Equal(t, "missing", FailureReason(err))
	_, err = v.Verify("PC9abc")
	assert.Equal(t, "unsupported_format", FailureReason(err))
	_, err = v.Verify("not base64 at all!!")
	assert.Equal(t, "malformed", FailureReason(err))

	_, err = Verify(signer.v1Key(t, time.Now(), "", ""))
	assert.Equal(t, "signature_invalid", FailureReason(err))

	assert.Equal(t, "", FailureReason(nil))
}
