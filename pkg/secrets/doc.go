// Package secrets encrypts short strings such as card numbers at rest.
//
// A Cipher holds one 32-byte master key. Every call names a scope (for
// example the owning user); a per-scope AES-256-GCM key is derived from the
// master key with HKDF-SHA256 and the scope is also bound as additional data,
// so a ciphertext only decrypts under the scope it was produced for.
//
//	key, _ := secrets.ParseKey(os.Getenv("CARD_ENCRYPTION_KEY"))
//	c, _ := secrets.NewCipher(key)
//	enc, _ := c.Encrypt("owner:42", "4111111111111111")
//	plain, _ := c.Decrypt("owner:42", enc)
package secrets
