package license

import (
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"math/big"
)

// Trust anchor for issued license keys. The modulus and exponent must
// match the signing key byte for byte; there is no certificate chain and
// no revocation, the embedded key is the whole trust model.
const (
	productionModulusB64 = "xUnhjgRWAVwP3QlSFZ9gLWvvkGSCLnLXc4SvZVqhVVfRS+IZZtySWvq0EB/9pbKV" +
		"zZ34tmAiQj3C4KagjPeNBoUlBKpXg2uZpiaZ3KzSPVfZtEqL3ksmosAmBklOzIqm" +
		"uvtTqrj6cDDhGth0LSlRx7j3PEUXDMutHtjuMnr6u65icYjfFkkb0xhTnReKuS3o" +
		"teslEz+7av43EnhApoI88ev4gYg76v5/6GkSBXI6N24CcHc0cZ5dfv+12OggbSJl" +
		"90GTnjJrMxYdyy4a7ynD4J5uWE1ER1B5Jgtktw12PZUC6hZ6BNV+IJAij5AqNz/7" +
		"oHEzb3lVks+/Gw19xohV5Q=="
	productionExponent = 65537
)

var productionKey = mustDecodePublicKey(productionModulusB64, productionExponent)

func mustDecodePublicKey(modulusB64 string, exponent int) *rsa.PublicKey {
	raw, err := base64.StdEncoding.DecodeString(modulusB64)
	if err != nil {
		panic(fmt.Sprintf("license: invalid embedded public key modulus: %v", err))
	}
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(raw),
		E: exponent,
	}
}
