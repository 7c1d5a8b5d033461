package license

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductionKeyMaterial(t *testing.T) {
	assert.Equal(t, 256, len(productionKey.N.Bytes()), "expect a 2048-bit modulus")
	assert.Equal(t, 65537, productionKey.E)
	assert.Equal(t, uint(1), productionKey.N.Bit(0), "RSA modulus must be odd")
}
