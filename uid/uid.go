// Package uid provides snowflake identifiers encoded as base58 strings.
package uid

import (
	"math/rand"
	"time"

	"github.com/bwmarrin/snowflake"
)

// ID is a unique identifier for a database record. The zero value is not a
// valid ID.
type ID snowflake.ID

var idGen *snowflake.Node

func init() {
	snowflake.Epoch = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()

	var err error
	//nolint:gosec // the node id does not need to be cryptographically random
	idGen, err = snowflake.NewNode(rand.Int63n(1024))
	if err != nil {
		panic(err)
	}
}

// New returns an ID using a random node ID. The node ID is selected when the
// process starts, and won't change until the process is restarted.
func New() ID {
	return ID(idGen.Generate())
}

// String returns the base58 encoded value of the ID.
func (u ID) String() string {
	return snowflake.ID(u).Base58()
}

// Parse decodes a base58 encoded value into an ID.
func Parse(b []byte) (ID, error) {
	id, err := snowflake.ParseBase58(b)
	return ID(id), err
}

func (u ID) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

func (u *ID) UnmarshalText(b []byte) error {
	id, err := Parse(b)
	if err != nil {
		return err
	}
	*u = id
	return nil
}

// UnmarshalParam implements gin's binding.BindUnmarshaler so that IDs can
// be bound from URI and query parameters.
func (u *ID) UnmarshalParam(param string) error {
	return u.UnmarshalText([]byte(param))
}
