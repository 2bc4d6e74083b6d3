package model

import (
	"strings"
	"time"
)

const (
	TableName  = "tasks"
	EntityName = "task"

	FieldID        = "id"
	FieldOwnerID   = "owner_id"
	FieldTitle     = "title"
	FieldCompleted = "completed"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)

// OwnerID scopes every task to exactly one caller. It is string-backed in
// the embedded phase; the networked backend stores it as an integer key
// behind the owners table, so a later change of the underlying
// representation stays a single-point type change.
type OwnerID string

func (o OwnerID) String() string {
	return string(o)
}

// IsEmpty reports whether the identifier carries no usable value.
// Whitespace-only identifiers count as empty.
func (o OwnerID) IsEmpty() bool {
	return strings.TrimSpace(string(o)) == ""
}

type Task struct {
	ID        int64     `db:"id" json:"id"`
	OwnerID   OwnerID   `db:"owner_id" json:"owner_id"`
	Title     string    `db:"title" json:"title"`
	Completed bool      `db:"completed" json:"completed"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	// Reserved for later feature generations. Never read or written until
	// the owning feature activates; they exist so the physical schema does
	// not change when it does.
	Description       *string    `db:"description" json:"description,omitempty"`
	Priority          *string    `db:"priority" json:"priority,omitempty"`
	Tags              *string    `db:"tags" json:"tags,omitempty"`
	DueDate           *time.Time `db:"due_date" json:"due_date,omitempty"`
	RecurrencePattern *string    `db:"recurrence_pattern" json:"recurrence_pattern,omitempty"`
}

// Patch carries the mutable fields of an update. Nil fields are left
// untouched; UpdatedAt is always re-stamped by the access layer.
type Patch struct {
	Title     *string
	Completed *bool
	UpdatedAt time.Time
}
