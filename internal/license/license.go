package license

import (
	"crypto/rsa"
	"fmt"
	"strings"
	"time"
)

// v2Prefix tags keys in the tagged-record format. Keys without a version
// tag are decoded as V1.
const v2Prefix = "PC2"

// License holds the verified attributes of a license key. Values are
// populated during decoding but a License is only handed out once the
// signature over the decoded payload has verified, so every field a
// caller can observe is trusted. The zero value is not meaningful; use
// a Verifier to obtain one.
type License struct {
	key               string
	endTime           time.Time
	domainLimitation  string
	hasLimitation     bool
	customerNotice    string
	hasNotice         bool
	edition           string
	hasEdition        bool
	domainNumberLimit int
	hasDomainLimit    bool
}

// Key returns the raw key string the license was built from.
func (l *License) Key() string { return l.key }

// EndTime returns the expiration timestamp in UTC.
func (l *License) EndTime() time.Time { return l.endTime }

// DomainLimitation returns the domain the license is restricted to. The
// second return reports whether the field was present in the key at all;
// an empty string with ok == true means the field was encoded empty.
func (l *License) DomainLimitation() (string, bool) {
	return l.domainLimitation, l.hasLimitation
}

// CustomerNotice returns the notice text embedded in the key, if any.
func (l *License) CustomerNotice() (string, bool) {
	return l.customerNotice, l.hasNotice
}

// Edition returns the product edition, if the key carries one.
func (l *License) Edition() (string, bool) {
	return l.edition, l.hasEdition
}

// DomainNumberLimit returns the maximum number of domains the license
// covers, if the key carries a limit.
func (l *License) DomainNumberLimit() (int, bool) {
	return l.domainNumberLimit, l.hasDomainLimit
}

// Expired reports whether the license end time has passed at the given
// instant.
func (l *License) Expired(now time.Time) bool {
	return now.After(l.endTime)
}

// Verifier decodes and verifies license keys against a fixed public key.
// The zero value is not usable; NewVerifier defaults to the embedded
// production key.
type Verifier struct {
	pub *rsa.PublicKey
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithPublicKey overrides the embedded production key. Intended for
// tests and staging issuers.
func WithPublicKey(pub *rsa.PublicKey) Option {
	return func(v *Verifier) { v.pub = pub }
}

// NewVerifier returns a Verifier trusting the embedded production key
// unless overridden with WithPublicKey.
func NewVerifier(opts ...Option) *Verifier {
	v := &Verifier{pub: productionKey}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify decodes the key, checks its signature and returns the verified
// license. It fails with ErrMissingLicense, ErrUnsupportedFormat,
// ErrMalformedLicense or ErrSignatureInvalid; no partial license is ever
// returned.
func (v *Verifier) Verify(key string) (*License, error) {
	switch detectFormat(key) {
	case formatMissing:
		return nil, ErrMissingLicense
	case formatV2:
		return decodeV2(v.pub, key)
	case formatUnsupported:
		return nil, fmt.Errorf("%w: unrecognized version tag %q", ErrUnsupportedFormat, key[:3])
	default:
		return decodeV1(v.pub, key)
	}
}

// Verify checks a key against the embedded production public key.
func Verify(key string) (*License, error) {
	return NewVerifier().Verify(key)
}

type format int

const (
	formatMissing format = iota
	formatV1
	formatV2
	formatUnsupported
)

// detectFormat picks the decoder from the literal version tag. Only
// "PC2" is a known tag; "PC" followed by another digit is reserved for
// future revisions and rejected explicitly instead of being fed to the
// V1 decoder.
func detectFormat(key string) format {
	if key == "" {
		return formatMissing
	}
	if strings.HasPrefix(key, v2Prefix) {
		return formatV2
	}
	if len(key) >= 3 && strings.HasPrefix(key, "PC") && key[2] >= '0' && key[2] <= '9' {
		return formatUnsupported
	}
	return formatV1
}
