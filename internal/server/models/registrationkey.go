package models

import (
	"time"
)

const (
	// RegistrationKeyKeyLength is the length of the ID used to look up the key.
	RegistrationKeyKeyLength = 10
	// RegistrationKeySecretLength is the length of the secret used to
	// validate the key.
	RegistrationKeySecretLength = 24

	// RegistrationKeyKindDevice keys authenticate device registration.
	RegistrationKeyKindDevice = "device"
	// RegistrationKeyKindOperator keys authenticate operator API calls.
	RegistrationKeyKindOperator = "operator"
)

// RegistrationKey is an organization-scoped API key. Device keys are
// presented once during machine registration; operator keys are presented as
// a bearer credential on operator calls. The full key is
// "bk_<keyID>.<secret>"; only a bcrypt hash of the secret is stored.
type RegistrationKey struct {
	Model
	OrganizationMember

	Name string
	Kind string `gorm:"default:device"`

	KeyID      string `gorm:"uniqueIndex:idx_registration_keys_key_id,where:deleted_at is NULL"`
	SecretHash []byte

	Active bool
	// ExpiresAt is optional. The zero value means the key does not expire.
	ExpiresAt time.Time

	// IssuedFor identifies the operator a key of kind operator acts as.
	IssuedFor string
}

// Expired reports whether the key has an expiry in the past.
func (k *RegistrationKey) Expired(now time.Time) bool {
	return !k.ExpiresAt.IsZero() && k.ExpiresAt.Before(now)
}
