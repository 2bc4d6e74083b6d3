package model

import "time"

const (
	TableName  = "owners"
	EntityName = "owner"

	FieldID   = "id"
	FieldName = "name"
)

// Owner is the integer-keyed account record the networked backend resolves
// the opaque owner identifier through. It does not exist in the embedded
// phase, where the identifier is stored directly on the task row.
type Owner struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
