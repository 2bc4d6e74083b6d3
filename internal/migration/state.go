package migration

import (
	"fmt"
)

// State names a checkpoint of the cutover procedure. States are strictly
// ordered; a run only ever moves forward through them, and the manifest on
// disk records the last one reached.
type State string

const (
	StatePending       State = "pending"
	StateSchemaApplied State = "schema_applied"
	StateDataExported  State = "data_exported"
	StateOwnerMapped   State = "owner_mapped"
	StateDataImported  State = "data_imported"
	StateValidated     State = "validated"
	StateComplete      State = "complete"
)

var sequence = []State{
	StatePending,
	StateSchemaApplied,
	StateDataExported,
	StateOwnerMapped,
	StateDataImported,
	StateValidated,
	StateComplete,
}

func (s State) String() string {
	return string(s)
}

func (s State) index() int {
	for i, state := range sequence {
		if state == s {
			return i
		}
	}

	return -1
}

// IsValid reports whether the state is one of the known checkpoints.
func (s State) IsValid() bool {
	return s.index() >= 0
}

// Before reports whether s is an earlier checkpoint than other. Unknown
// states compare before everything.
func (s State) Before(other State) bool {
	return s.index() < other.index()
}

// Next returns the checkpoint that follows s.
func (s State) Next() (State, error) {
	idx := s.index()
	if idx < 0 {
		return "", fmt.Errorf("unknown cutover state %q", string(s))
	}

	if idx == len(sequence)-1 {
		return "", fmt.Errorf("cutover state %q has no successor", string(s))
	}

	return sequence[idx+1], nil
}

// Resumable reports whether an interrupted run in this state can be
// continued without re-reading the source database. Anything before the
// export artifact exists has nothing to continue from; a complete run has
// nothing left to do.
func (s State) Resumable() bool {
	idx := s.index()

	return idx >= StateDataExported.index() && idx < StateComplete.index()
}
