package catalog

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Clock abstracts time retrieval so ages and ids are deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// IDGenerator produces ids for newly created records.
type IDGenerator interface {
	New() string
}

// UUIDGenerator produces random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.New().String() }

// TimestampGenerator produces millisecond timestamp ids ("1717171717171"),
// the scheme used by the original browser forms.
type TimestampGenerator struct {
	Clock Clock
}

func (g TimestampGenerator) New() string {
	return strconv.FormatInt(g.Clock.Now().UnixMilli(), 10)
}
