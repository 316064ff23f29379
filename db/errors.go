package db

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrConflict         = errors.New("record already exists")
	ErrAlreadySubmitted = errors.New("influencer has already been submitted")
	ErrNotOwner         = errors.New("influencer was added by another user")
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// translate maps constraint violations onto the package sentinels.
func translate(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case uniqueViolation:
		return fmt.Errorf("%w (%s): %v", ErrConflict, pqErr.Constraint, err)
	case foreignKeyViolation:
		return fmt.Errorf("%w (%s): %v", ErrNotFound, pqErr.Constraint, err)
	}
	return err
}
