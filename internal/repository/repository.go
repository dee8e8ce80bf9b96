package repository

import (
	"context"
	"errors"

	"github.com/deionjtulcidas/ServerlessContactForm/internal/model"
)

// ErrDuplicateID is returned when an insert hits an existing id.
var ErrDuplicateID = errors.New("submission id already exists")

// SubmissionStore is the primary store for submissions. Writes are
// insert-only; Delete exists for compensating a failed pipeline.
type SubmissionStore interface {
	Insert(ctx context.Context, sub *model.Submission) error
	Delete(ctx context.Context, id string) error
}
