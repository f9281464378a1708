package directoryRepo

import (
	"context"
	"errors"

	"recruitd/models"
)

// Sentinel errors for missing directory entries.
var (
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrCandidateNotFound  = errors.New("candidate not found")
)

// DirectoryRepository is the read-only lookup this service is allowed into the
// submission workflow's data: resolving a submission to its candidate,
// requirement and customer, and fetching candidate experience for rate
// suggestions.
type DirectoryRepository interface {
	GetSubmissionByID(ctx context.Context, id string) (*models.Submission, error)
	GetCandidateByID(ctx context.Context, id string) (*models.Candidate, error)
}
