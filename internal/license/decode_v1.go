package license

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

// decodeV1 parses the fixed-field key layout: four little-endian uint32
// lengths followed by the date, domain-limitation, notice and signature
// blocks in that order. The signed payload is the three data blocks
// concatenated, without the length prefixes and without the signature.
func decodeV1(pub *rsa.PublicKey, key string) (*License, error) {
	raw, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64: %v", ErrMalformedLicense, err)
	}

	r := newBlockReader(raw)
	var lengths [4]uint32
	for i := range lengths {
		if lengths[i], err = r.uint32(); err != nil {
			return nil, fmt.Errorf("block length %d: %w", i, err)
		}
	}

	date, err := r.block(int(lengths[0]))
	if err != nil {
		return nil, fmt.Errorf("date block: %w", err)
	}
	limitation, err := r.block(int(lengths[1]))
	if err != nil {
		return nil, fmt.Errorf("domain limitation block: %w", err)
	}
	notice, err := r.block(int(lengths[2]))
	if err != nil {
		return nil, fmt.Errorf("customer notice block: %w", err)
	}
	signature, err := r.block(int(lengths[3]))
	if err != nil {
		return nil, fmt.Errorf("signature block: %w", err)
	}

	if len(date) < 8 {
		return nil, fmt.Errorf("%w: date block is %d bytes, need 8", ErrMalformedLicense, len(date))
	}

	payload := make([]byte, 0, len(date)+len(limitation)+len(notice))
	payload = append(payload, date...)
	payload = append(payload, limitation...)
	payload = append(payload, notice...)

	if err := verifySignature(pub, payload, signature); err != nil {
		return nil, err
	}

	limitationText, err := decodeUTF16LE(limitation)
	if err != nil {
		return nil, err
	}
	noticeText, err := decodeUTF16LE(notice)
	if err != nil {
		return nil, err
	}

	return &License{
		key:              key,
		endTime:          fileTimeToUTC(int64(binary.LittleEndian.Uint64(date[:8]))),
		domainLimitation: limitationText,
		hasLimitation:    true,
		customerNotice:   noticeText,
		hasNotice:        true,
	}, nil
}
