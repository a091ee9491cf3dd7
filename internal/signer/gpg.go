package signer

import (
	"bytes"
	"crypto"
	"fmt"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/ralt/wpm/internal/utils"
)

// GPGSigner implements Signer with an OpenPGP private key
type GPGSigner struct {
	entity *openpgp.Entity
}

// NewGPGSigner loads the first key of a private key file
func NewGPGSigner(keyPath, passphrase string) (*GPGSigner, error) {
	entities, err := readKeyRing(keyPath)
	if err != nil {
		return nil, err
	}

	entity := entities[0]
	if entity.PrivateKey == nil {
		return nil, fmt.Errorf("%s does not contain a private key", keyPath)
	}
	if err := unlock(entity, passphrase); err != nil {
		return nil, err
	}

	return &GPGSigner{entity: entity}, nil
}

// SignDetached creates an armored detached signature of a feed
func (s *GPGSigner) SignDetached(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	err := openpgp.ArmoredDetachSign(&buf, s.entity, bytes.NewReader(data), &packet.Config{
		DefaultHash: crypto.SHA512,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create detached signature: %w", err)
	}
	return buf.Bytes(), nil
}

// GetPublicKey returns the public key in armored format
func (s *GPGSigner) GetPublicKey() ([]byte, error) {
	var buf bytes.Buffer

	w, err := armor.Encode(&buf, openpgp.PublicKeyType, nil)
	if err != nil {
		return nil, err
	}
	if err := s.entity.Serialize(w); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// SignFile writes the detached signature of a feed file next to it and
// returns the signature path
func SignFile(s Signer, path, suffix string) (string, error) {
	data, err := readFile(path)
	if err != nil {
		return "", err
	}

	sig, err := s.SignDetached(data)
	if err != nil {
		return "", err
	}

	sigPath := path + suffix
	if err := utils.WriteFile(sigPath, sig, 0o644); err != nil {
		return "", fmt.Errorf("failed to write signature: %w", err)
	}
	return sigPath, nil
}
