// Package secret encrypts and decrypts vault credential secrets.
// AES-256-CBC with a fresh random IV per encryption; the key is derived once
// at startup from the operator passphrase via scrypt.
package secret

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/scrypt"
)

const (
	keySize = 32 // AES-256
	ivSize  = aes.BlockSize

	// scrypt parameters; interactive-login strength.
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

// kdfSalt keeps key derivation deterministic across restarts. Changing the
// salt, like changing the passphrase, invalidates every stored ciphertext.
var kdfSalt = []byte("cofre-campneus-kdf-v1")

var (
	// ErrEncode covers encrypt-time failures: empty plaintext or broken key material.
	ErrEncode = errors.New("secret: encode failed")
	// ErrDecode covers decrypt-time failures: malformed blob, truncation, key mismatch.
	ErrDecode = errors.New("secret: decode failed")
)

// Key is the process-wide cipher key. Construct it with DeriveKey; the zero
// value is unusable and rejected by NewCodec.
type Key struct {
	material []byte
}

// DeriveKey stretches the operator passphrase into AES-256 key material.
func DeriveKey(passphrase string) (Key, error) {
	if passphrase == "" {
		return Key{}, fmt.Errorf("%w: empty passphrase", ErrEncode)
	}
	material, err := scrypt.Key([]byte(passphrase), kdfSalt, scryptN, scryptR, scryptP, keySize)
	if err != nil {
		return Key{}, fmt.Errorf("%w: derive key: %v", ErrEncode, err)
	}
	return Key{material: material}, nil
}

// Codec is a pure encrypt/decrypt pair over a fixed key. Safe for concurrent use.
type Codec struct {
	key Key
}

// NewCodec builds a Codec, failing fast on missing or mis-sized key material.
func NewCodec(key Key) (Codec, error) {
	if len(key.material) != keySize {
		return Codec{}, fmt.Errorf("%w: key material must be %d bytes", ErrEncode, keySize)
	}
	return Codec{key: key}, nil
}

// Encrypt turns plaintext into a self-contained storable blob "<ivHex>:<ctHex>".
// A fresh random IV is generated on every call, so equal plaintexts never
// produce equal blobs.
func (c Codec) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", fmt.Errorf("%w: empty plaintext", ErrEncode)
	}

	block, err := aes.NewCipher(c.key.material)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncode, err)
	}

	iv := make([]byte, ivSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("%w: generate iv: %v", ErrEncode, err)
	}

	padded := pad([]byte(plaintext))
	ct := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ct, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(ct), nil
}

// Decrypt reverses Encrypt. Malformed blobs, truncated payloads, and key
// mismatches all report ErrDecode; the function never panics.
func (c Codec) Decrypt(blob string) (string, error) {
	ivPart, ctPart, ok := strings.Cut(blob, ":")
	if !ok {
		return "", fmt.Errorf("%w: missing iv delimiter", ErrDecode)
	}

	iv, err := hex.DecodeString(ivPart)
	if err != nil || len(iv) != ivSize {
		return "", fmt.Errorf("%w: bad iv", ErrDecode)
	}
	ct, err := hex.DecodeString(ctPart)
	if err != nil {
		return "", fmt.Errorf("%w: bad ciphertext encoding", ErrDecode)
	}
	if len(ct) == 0 || len(ct)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: ciphertext length %d", ErrDecode, len(ct))
	}

	block, err := aes.NewCipher(c.key.material)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	pt := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(pt, ct)

	pt, err = unpad(pt)
	if err != nil {
		return "", err
	}
	// CBC carries no MAC, so a wrong key mostly surfaces as invalid padding.
	// The UTF-8 check closes the residual window where random padding parses.
	if !utf8.Valid(pt) {
		return "", fmt.Errorf("%w: plaintext not valid utf-8", ErrDecode)
	}
	return string(pt), nil
}

// pad applies PKCS#7 padding up to the AES block size.
func pad(b []byte) []byte {
	n := aes.BlockSize - len(b)%aes.BlockSize
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}

// unpad strips PKCS#7 padding, verifying every padding byte.
func unpad(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty plaintext block", ErrDecode)
	}
	n := int(b[len(b)-1])
	if n == 0 || n > aes.BlockSize || n > len(b) {
		return nil, fmt.Errorf("%w: invalid padding", ErrDecode)
	}
	for _, p := range b[len(b)-n:] {
		if int(p) != n {
			return nil, fmt.Errorf("%w: invalid padding", ErrDecode)
		}
	}
	return b[:len(b)-n], nil
}
