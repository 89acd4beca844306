package post

import (
	"time"

	"github.com/gofrs/uuid"
)

// Post is the only aggregate this service owns. AuthorID references a user
// record held by the external identity provider, so it is an opaque string
// rather than a foreign key. Posts are immutable after creation.
type Post struct {
	ID        uuid.UUID `gorm:"primary_key;type:char(36)"`
	AuthorID  string    `gorm:"type:varchar(64);not null;index"`
	Content   string    `gorm:"type:varchar(280);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}
