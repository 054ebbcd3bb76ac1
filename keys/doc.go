// Package keys provides the signing and verifying capabilities records are
// bound to.
//
// The record core treats keys as opaque capabilities: a key-type tag plus
// sign/verify functions. Two algorithms are supported, ed25519 and
// dilithium3; the wire codec dispatches on the tag so further algorithms can
// be added without touching the record layer.
//
// Filesystem-backed key storage (KeyStore and the key-file helpers) is a
// local-first convenience for the CLI and is not part of the protocol
// surface.
package keys
