// Package claims defines the machine token payload and the signing and
// verification of machine tokens.
package claims

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/square/go-jose.v2"
	"gopkg.in/square/go-jose.v2/jwt"

	"github.com/boothhq/fleet/internal"
	"github.com/boothhq/fleet/uid"
)

// Machine is the custom claim set carried by a machine token. Every
// authenticated device call must compare MachineID against the machine in
// the request path.
type Machine struct {
	MachineID      uid.ID `json:"mid"`
	OrganizationID uid.ID `json:"org"`
	HardwareID     string `json:"hwid"`
}

var signatureAlgorithmFromKeyAlgorithm = map[string]jose.SignatureAlgorithm{
	string(jose.ED25519): jose.EdDSA,
}

// CreateMachineToken signs a machine token with the private JWK and returns
// the compact serialization and the expiry.
//
// Warning: jwk is a sensitive value, do not log it.
func CreateMachineToken(jwk []byte, machine Machine, lifetime time.Duration) (string, time.Time, error) {
	var sec jose.JSONWebKey
	if err := sec.UnmarshalJSON(jwk); err != nil {
		return "", time.Time{}, err
	}

	algo, ok := signatureAlgorithmFromKeyAlgorithm[sec.Algorithm]
	if !ok {
		return "", time.Time{}, fmt.Errorf("unsupported algorithm %v", sec.Algorithm)
	}

	options := &jose.SignerOptions{}
	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: algo, Key: sec}, options.WithType("JWT"))
	if err != nil {
		return "", time.Time{}, err
	}

	now := time.Now().UTC()
	expiry := now.Add(lifetime)

	claim := jwt.Claims{
		Issuer:    "fleet",
		NotBefore: jwt.NewNumericDate(now.Add(time.Minute * -5)), // adjust for clock drift
		Expiry:    jwt.NewNumericDate(expiry),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	raw, err := jwt.Signed(signer).Claims(claim).Claims(machine).CompactSerialize()
	if err != nil {
		return "", time.Time{}, err
	}

	return raw, expiry, nil
}

// ValidateMachineToken verifies the signature and expiry of a machine token
// against the public JWK, and returns the typed payload. An expired token
// returns internal.ErrExpired, any other failure internal.ErrInvalid.
func ValidateMachineToken(jwk []byte, token string) (*Machine, error) {
	var pub jose.JSONWebKey
	if err := pub.UnmarshalJSON(jwk); err != nil {
		return nil, err
	}

	parsed, err := jwt.ParseSigned(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internal.ErrInvalid, err)
	}

	var std jwt.Claims
	var machine Machine
	if err := parsed.Claims(pub.Key, &std, &machine); err != nil {
		return nil, fmt.Errorf("%w: %v", internal.ErrInvalid, err)
	}

	err = std.ValidateWithLeeway(jwt.Expected{Time: time.Now().UTC()}, time.Minute)
	switch {
	case errors.Is(err, jwt.ErrExpired):
		return nil, internal.ErrExpired
	case err != nil:
		return nil, fmt.Errorf("%w: %v", internal.ErrInvalid, err)
	}

	if machine.MachineID == 0 {
		return nil, fmt.Errorf("%w: missing machine id", internal.ErrInvalid)
	}

	return &machine, nil
}
