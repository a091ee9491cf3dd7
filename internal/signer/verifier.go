package signer

import (
	"bytes"
	"fmt"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ralt/wpm/internal/models"
	"github.com/sirupsen/logrus"
)

// KeyRingVerifier checks detached signatures against a set of trusted
// public keys
type KeyRingVerifier struct {
	keyring openpgp.EntityList
}

// NewKeyRingVerifier loads the trusted keys from a key ring file
func NewKeyRingVerifier(path string) (*KeyRingVerifier, error) {
	entities, err := readKeyRing(path)
	if err != nil {
		return nil, &models.EngineError{Type: models.ErrInvalidConfig, Err: err}
	}
	return &KeyRingVerifier{keyring: entities}, nil
}

// Verify checks an armored or binary detached signature of data
func (v *KeyRingVerifier) Verify(data, signature []byte) error {
	signer, err := openpgp.CheckArmoredDetachedSignature(v.keyring, bytes.NewReader(data), bytes.NewReader(signature), nil)
	if err != nil {
		signer, err = openpgp.CheckDetachedSignature(v.keyring, bytes.NewReader(data), bytes.NewReader(signature), nil)
	}
	if err != nil {
		return &models.EngineError{
			Type: models.ErrSignature,
			Err:  fmt.Errorf("signature verification failed: %w", err),
		}
	}

	for name := range signer.Identities {
		logrus.Debugf("Good signature from %s", name)
	}
	return nil
}
