package license

import "errors"

// Decode and verification failures. Callers that need to distinguish the
// cause should test with errors.Is; the service layer collapses all of
// them into a single invalid outcome and only logs the detail.
var (
	// ErrMissingLicense is returned when the key string is empty.
	ErrMissingLicense = errors.New("license key is missing")

	// ErrMalformedLicense is returned for structural decode failures:
	// invalid base64, failed decompression, truncated blocks, or a V2
	// stream that ends before its signature record.
	ErrMalformedLicense = errors.New("license key is malformed")

	// ErrSignatureInvalid is returned when the key decodes cleanly but
	// its signature does not verify against the trusted public key.
	ErrSignatureInvalid = errors.New("license signature is invalid")

	// ErrUnsupportedFormat is returned for version tags the detector
	// does not recognize ("PC" followed by a digit other than 2).
	ErrUnsupportedFormat = errors.New("license format is not supported")
)

// FailureReason maps a verification error to a short label used in logs
// and metrics. The label set is not part of the public contract.
func FailureReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingLicense):
		return "missing"
	case errors.Is(err, ErrMalformedLicense):
		return "malformed"
	case errors.Is(err, ErrSignatureInvalid):
		return "signature_invalid"
	case errors.Is(err, ErrUnsupportedFormat):
		return "unsupported_format"
	default:
		return "unknown"
	}
}
