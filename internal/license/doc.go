// Package license implements decoding and verification of PingCastle
// license keys.
//
// Two wire formats coexist. A V1 key is the base64 encoding of four
// length-prefixed byte blocks (expiration date, domain limitation,
// customer notice, RSA signature) in a fixed order. A V2 key carries a
// "PC2" prefix followed by the base64 encoding of a DEFLATE-compressed
// stream of tagged records; the stream is terminated by a signature
// record covering every byte read before it.
//
// Both formats embed an RSA PKCS#1 v1.5 signature over a SHA-1 digest of
// the decoded payload, checked against a public key compiled into the
// binary. A License value is only ever returned after that signature
// verifies: there is no observable decoded-but-unverified state, and a
// verified License is immutable and safe for concurrent reads.
package license
