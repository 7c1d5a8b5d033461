package license

import (
	"bytes"
	"crypto/rsa"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// Record types of the V2 tagged stream. The signature record terminates
// decoding; everything read before it is part of the signed payload.
const (
	recordSignature         = 0
	recordEndTime           = 1
	recordDomainLimitation  = 2
	recordCustomerNotice    = 3
	recordEdition           = 4
	recordDomainNumberLimit = 5
)

const proEdition = "Pro"

// decodeV2 parses the tagged-record layout: the "PC2" prefix is followed
// by base64 over a raw-DEFLATE stream of (type, length, value) records,
// both integers 4-byte little-endian. Unknown record types carry no
// attribute but their encoded bytes still count toward the signed
// payload, so keys minted by newer issuers verify here unchanged.
func decodeV2(pub *rsa.PublicKey, key string) (*License, error) {
	raw, err := base64.StdEncoding.DecodeString(key[len(v2Prefix):])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64: %v", ErrMalformedLicense, err)
	}

	stream, err := io.ReadAll(flate.NewReader(bytes.NewReader(raw)))
	if err != nil {
		return nil, fmt.Errorf("%w: decompression failed: %v", ErrMalformedLicense, err)
	}

	lic := &License{key: key}
	r := newBlockReader(stream)
	var payload bytes.Buffer

	for r.remaining() > 0 {
		header, err := r.block(8)
		if err != nil {
			return nil, fmt.Errorf("record header: %w", err)
		}
		recordType := binary.LittleEndian.Uint32(header[:4])
		valueLen := binary.LittleEndian.Uint32(header[4:])

		value, err := r.block(int(valueLen))
		if err != nil {
			return nil, fmt.Errorf("record %d value: %w", recordType, err)
		}

		if recordType == recordSignature {
			if err := verifySignature(pub, payload.Bytes(), value); err != nil {
				return nil, err
			}
			// Records after the signature are never read.
			lic.applyProDefault()
			return lic, nil
		}

		payload.Write(header)
		payload.Write(value)

		if err := lic.applyRecord(recordType, value); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w: stream ended without a signature record", ErrMalformedLicense)
}

func (l *License) applyRecord(recordType uint32, value []byte) error {
	switch recordType {
	case recordEndTime:
		if len(value) < 8 {
			return fmt.Errorf("%w: end time record is %d bytes, need 8", ErrMalformedLicense, len(value))
		}
		l.endTime = fileTimeToUTC(int64(binary.LittleEndian.Uint64(value[:8])))
	case recordDomainLimitation:
		text, err := decodeUTF16LE(value)
		if err != nil {
			return err
		}
		l.domainLimitation = text
		l.hasLimitation = true
	case recordCustomerNotice:
		text, err := decodeUTF16LE(value)
		if err != nil {
			return err
		}
		l.customerNotice = text
		l.hasNotice = true
	case recordEdition:
		text, err := decodeUTF16LE(value)
		if err != nil {
			return err
		}
		l.edition = text
		l.hasEdition = true
	case recordDomainNumberLimit:
		if len(value) < 4 {
			return fmt.Errorf("%w: domain limit record is %d bytes, need 4", ErrMalformedLicense, len(value))
		}
		l.domainNumberLimit = int(binary.LittleEndian.Uint32(value[:4]))
		l.hasDomainLimit = true
	}
	// Unknown types are reserved for future revisions and set nothing.
	return nil
}

// applyProDefault caps Pro edition licenses without an explicit domain
// limitation at a single domain. Runs only after the signature verified.
func (l *License) applyProDefault() {
	if l.edition == proEdition && !l.hasLimitation {
		l.domainNumberLimit = 1
		l.hasDomainLimit = true
	}
}
