package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// ErrPasswordMismatch is returned by Verify when the password does not
// match the stored digest.
var ErrPasswordMismatch = errors.New("auth: invalid password")

// Hasher defines the interface for password hashing and verification.
// Both implementations are deliberately slow, salted algorithms; a digest
// never reveals the plaintext and verification is constant-time.
type Hasher interface {
	// Hash returns a salted digest of the password safe for storage.
	Hash(password string) (string, error)

	// Verify checks a password against a stored digest.
	// Returns nil on match, ErrPasswordMismatch otherwise.
	Verify(password, digest string) error
}

// HasherConfig configures password hashing behavior.
type HasherConfig struct {
	// Algorithm selects the hashing algorithm: "bcrypt" (default) or "argon2id".
	Algorithm string `mapstructure:"algorithm"`

	// BcryptCost is the bcrypt cost parameter (default: 12, range: 4-31).
	BcryptCost int `mapstructure:"bcrypt_cost"`

	// Argon2Time is the number of iterations for argon2id (default: 1).
	Argon2Time uint32 `mapstructure:"argon2_time"`

	// Argon2Memory is the memory usage in KiB for argon2id (default: 65536).
	Argon2Memory uint32 `mapstructure:"argon2_memory"`

	// Argon2Threads is the parallelism for argon2id (default: 4).
	Argon2Threads uint8 `mapstructure:"argon2_threads"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *HasherConfig) ApplyDefaults() {
	if c.Algorithm == "" {
		c.Algorithm = "bcrypt"
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = 12
	}
	if c.Argon2Time == 0 {
		c.Argon2Time = 1
	}
	if c.Argon2Memory == 0 {
		c.Argon2Memory = 64 * 1024
	}
	if c.Argon2Threads == 0 {
		c.Argon2Threads = 4
	}
}

// Validate checks the configuration.
func (c *HasherConfig) Validate() error {
	switch c.Algorithm {
	case "bcrypt", "argon2id":
	default:
		return fmt.Errorf("auth: unsupported password algorithm: %s", c.Algorithm)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("auth: bcrypt_cost must be between %d and %d (got: %d)",
			bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}
	return nil
}

// NewHasher creates a Hasher from configuration.
func NewHasher(cfg HasherConfig) (Hasher, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Algorithm {
	case "argon2id":
		return &Argon2Hasher{
			time:    cfg.Argon2Time,
			memory:  cfg.Argon2Memory,
			threads: cfg.Argon2Threads,
			keyLen:  32,
			saltLen: 16,
		}, nil
	default:
		return &BcryptHasher{cost: cfg.BcryptCost}, nil
	}
}

// --- Bcrypt Implementation ---

// BcryptHasher implements Hasher using bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a bcrypt-based password hasher with the default cost.
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: 12}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	if len(password) > 72 {
		return "", errors.New("auth: maximum password length is 72 bytes (bcrypt limit)")
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hash password: %w", err)
	}
	return string(digest), nil
}

func (h *BcryptHasher) Verify(password, digest string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)); err != nil {
		return ErrPasswordMismatch
	}
	return nil
}

// --- Argon2id Implementation ---

// Argon2Hasher implements Hasher using argon2id, encoded in PHC string
// format: $argon2id$v=19$m=MEMORY,t=TIME,p=THREADS$SALT$HASH.
type Argon2Hasher struct {
	time    uint32
	memory  uint32
	threads uint8
	keyLen  uint32
	saltLen int
}

func (h *Argon2Hasher) Hash(password string) (string, error) {
	salt, err := randomBytes(h.saltLen)
	if err != nil {
		return "", fmt.Errorf("auth: generate salt: %w", err)
	}

	digest := argon2.IDKey([]byte(password), salt, h.time, h.memory, h.threads, h.keyLen)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.memory, h.time, h.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	)
	return encoded, nil
}

func (h *Argon2Hasher) Verify(password, encodedDigest string) error {
	parts := strings.Split(encodedDigest, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return errors.New("auth: invalid argon2id digest format")
	}

	var memory, iterations uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return fmt.Errorf("auth: parse argon2id params: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("auth: decode salt: %w", err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return fmt.Errorf("auth: decode digest: %w", err)
	}

	digest := argon2.IDKey([]byte(password), salt, iterations, memory, threads, uint32(len(expected)))
	if subtle.ConstantTimeCompare(digest, expected) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}
