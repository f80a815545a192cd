package data

import (
	"crypto"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"

	"gopkg.in/square/go-jose.v2"
	"gorm.io/gorm"

	"github.com/boothhq/fleet/internal/server/models"
)

// InitializeSettings creates the deployment settings row on first boot,
// generating the ed25519 key pair used to sign machine tokens. Subsequent
// calls return the existing row.
func InitializeSettings(db *gorm.DB) (*models.Settings, error) {
	pubkey, seckey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}

	sec := jose.JSONWebKey{Key: seckey, Algorithm: string(jose.ED25519), Use: "sig"}

	thumb, err := sec.Thumbprint(crypto.SHA256)
	if err != nil {
		return nil, err
	}
	sec.KeyID = base64.URLEncoding.EncodeToString(thumb)

	pub := jose.JSONWebKey{Key: pubkey, KeyID: sec.KeyID, Algorithm: string(jose.ED25519), Use: "sig"}

	secs, err := sec.MarshalJSON()
	if err != nil {
		return nil, err
	}

	pubs, err := pub.MarshalJSON()
	if err != nil {
		return nil, err
	}

	settings := models.Settings{
		PrivateJWK: secs,
		PublicJWK:  pubs,
	}

	if err := db.FirstOrCreate(&settings).Error; err != nil {
		return nil, handleError(err)
	}

	return &settings, nil
}

func GetSettings(db *gorm.DB) (*models.Settings, error) {
	return get[models.Settings](db)
}
