// Package signer creates and checks OpenPGP detached signatures of feeds.
package signer

// Signer interface for signing repository feeds
type Signer interface {
	// SignDetached creates an armored detached signature (feed.xml.asc)
	SignDetached(data []byte) ([]byte, error)

	// GetPublicKey returns the public key
	GetPublicKey() ([]byte, error)
}
