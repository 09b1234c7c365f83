package ops

import (
	"database/sql"
	"strings"

	"github.com/snitch-dev/snitch/internal/errors"
	"github.com/snitch-dev/snitch/internal/index"
)

// LocateInput contains parameters for the Locate operation. ID is a stable
// entry id, with or without the "id:" link prefix.
type LocateInput struct {
	ID string
}

// LocateOutput contains the result of the Locate operation.
type LocateOutput struct {
	Location *index.Location `json:"location"`
}

// Locate looks up where an entry lives from the cross-project index.
func Locate(db *sql.DB, in LocateInput) (*LocateOutput, error) {
	id := strings.TrimPrefix(strings.TrimSpace(in.ID), "id:")
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}
	loc, err := index.Lookup(db, id)
	if err != nil {
		return nil, err
	}
	return &LocateOutput{Location: loc}, nil
}
