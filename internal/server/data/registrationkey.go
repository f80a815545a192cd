package data

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/boothhq/fleet/internal"
	"github.com/boothhq/fleet/internal/generate"
	"github.com/boothhq/fleet/internal/server/models"
)

const registrationKeyPrefix = "bk_"

// CreateRegistrationKey generates and stores a new key, returning the full
// secret in the form "bk_<keyID>.<secret>". The secret is only available at
// creation; the row keeps a bcrypt hash.
func CreateRegistrationKey(db *gorm.DB, key *models.RegistrationKey) (string, error) {
	keyID := generate.MathRandom(models.RegistrationKeyKeyLength, generate.CharsetAlphaNumericNoVowels)
	secret, err := generate.CryptoRandom(models.RegistrationKeySecretLength, generate.CharsetAlphaNumeric)
	if err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	key.KeyID = keyID
	key.SecretHash = hash
	key.Active = true

	if err := add(db, key); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%s.%s", registrationKeyPrefix, keyID, secret), nil
}

// ValidateRegistrationKey checks a presented key of the given kind against
// the stored record. Any failure, including an unknown key id, an inactive
// or expired key, or a secret mismatch, returns internal.ErrInvalidAPIKey so
// the caller cannot distinguish which part failed.
func ValidateRegistrationKey(db *gorm.DB, presented, kind string) (*models.RegistrationKey, error) {
	rest, ok := strings.CutPrefix(presented, registrationKeyPrefix)
	if !ok {
		return nil, internal.ErrInvalidAPIKey
	}

	keyID, secret, ok := strings.Cut(rest, ".")
	if !ok || keyID == "" || secret == "" {
		return nil, internal.ErrInvalidAPIKey
	}

	key, err := get[models.RegistrationKey](db, ByKeyID(keyID))
	if err != nil {
		return nil, internal.ErrInvalidAPIKey
	}

	if key.Kind != kind || !key.Active || key.Expired(time.Now().UTC()) {
		return nil, internal.ErrInvalidAPIKey
	}

	if err := bcrypt.CompareHashAndPassword(key.SecretHash, []byte(secret)); err != nil {
		return nil, internal.ErrInvalidAPIKey
	}

	return key, nil
}

func SaveRegistrationKey(db *gorm.DB, key *models.RegistrationKey) error {
	return save(db, key)
}
