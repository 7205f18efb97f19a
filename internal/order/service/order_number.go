package service

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// NewOrderNumber returns a randomized human-readable order number, e.g.
// ORD-9F2C41A07B3D. Uniqueness is enforced by the UNIQUE constraint on the
// orderNumber column; a timestamp-derived number would collide under
// concurrent creation.
func NewOrderNumber() string {
	id := uuid.New()
	return "ORD-" + strings.ToUpper(hex.EncodeToString(id[:6]))
}
