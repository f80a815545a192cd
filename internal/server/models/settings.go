package models

// Settings is a per-deployment singleton created on first boot. It holds the
// key pair used to sign and verify machine tokens.
type Settings struct {
	Model

	PrivateJWK []byte
	PublicJWK  []byte
}
