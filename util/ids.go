package util

import (
	"github.com/rs/xid"
)

// GenRunID generates an id for a single submission run.
// IDs are globally unique and sortable.
func GenRunID() string {
	id := xid.New()
	return id.String()
}
