package secrets

import "errors"

var (
	ErrInvalidKey          = errors.New("secrets.invalid_key")
	ErrEmptyScope          = errors.New("secrets.empty_scope")
	ErrInvalidCiphertext   = errors.New("secrets.invalid_ciphertext")
	ErrKeyDerivationFailed = errors.New("secrets.key_derivation_failed")
	ErrEncryptionFailed    = errors.New("secrets.encryption_failed")
	ErrDecryptionFailed    = errors.New("secrets.decryption_failed")
)
