package signer

import (
	"bytes"
	"fmt"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ralt/wpm/internal/models"
)

// readKeyRing reads an armored or binary OpenPGP key ring
func readKeyRing(path string) (openpgp.EntityList, error) {
	if path == "" {
		return nil, fmt.Errorf("key path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}

	entities, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(data))
	if err != nil {
		entities, err = openpgp.ReadKeyRing(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to parse key file %s: %w", path, err)
		}
	}

	if len(entities) == 0 {
		return nil, fmt.Errorf("no keys found in %s", path)
	}
	return entities, nil
}

// unlock decrypts the primary key and the subkeys of entity
func unlock(entity *openpgp.Entity, passphrase string) error {
	if passphrase == "" {
		return nil
	}

	if entity.PrivateKey != nil && entity.PrivateKey.Encrypted {
		if err := entity.PrivateKey.Decrypt([]byte(passphrase)); err != nil {
			return fmt.Errorf("failed to decrypt private key: %w", err)
		}
	}
	for _, subkey := range entity.Subkeys {
		if subkey.PrivateKey != nil && subkey.PrivateKey.Encrypted {
			if err := subkey.PrivateKey.Decrypt([]byte(passphrase)); err != nil {
				return fmt.Errorf("failed to decrypt subkey: %w", err)
			}
		}
	}
	return nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &models.EngineError{
			Type: models.ErrFileOp,
			Err:  fmt.Errorf("failed to read %s: %w", path, err),
		}
	}
	return data, nil
}
