// Package envelope builds and parses the two envelope shapes used by passbox.
//
// A PlainEnvelope holds fields encrypted under an existing content key. A
// WrappedEnvelope additionally carries a fresh content key wrapped under a key
// derived from a wrap secret (a master key or a share secret), with the KDF
// salt embedded in front of the wrapped bytes.
//
// Envelope is a closed set: Encode and Decode are total over PlainEnvelope and
// WrappedEnvelope, and any other input fails with ErrMalformedEnvelope.
package envelope
