package license

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha1"
	"fmt"
)

// verifySignature checks an RSA PKCS#1 v1.5 signature over the SHA-1
// digest of payload. Issued keys are signed with SHA-1, so the digest
// algorithm is fixed here for interoperability, not chosen.
func verifySignature(pub *rsa.PublicKey, payload, signature []byte) error {
	digest := sha1.Sum(payload)
	if err := rsa.VerifyPKCS1v15(pub, crypto.SHA1, digest[:], signature); err != nil {
		return fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}
	return nil
}
