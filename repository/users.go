package repository

import (
	"context"

	"github.com/goliatone/go-insurance-cache/insurance"
)

// UserRepository creates back-office users. User rows feed no cached view, so
// the repository is a validated passthrough; failures still reach the
// recorder for the audit trail.
type UserRepository struct {
	data     UserData
	recorder Recorder
}

// NewUserRepository wires a user repository. A nil recorder degrades to
// NopRecorder.
func NewUserRepository(data UserData, recorder Recorder) *UserRepository {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &UserRepository{data: data, recorder: recorder}
}

// Create inserts a new user and returns its id.
func (r *UserRepository) Create(ctx context.Context, nu insurance.NewUser, actorID int) (int, error) {
	if err := validateNewUser(nu); err != nil {
		return 0, err
	}
	id, err := r.data.CreateUser(ctx, nu, actorID)
	if err != nil {
		if insurance.KindOf(err) == insurance.KindInternal {
			r.recorder.Record(ctx, Entry{
				UserID:  actorID,
				Module:  "users",
				Action:  "create",
				Message: err.Error(),
			})
		}
		return 0, err
	}
	return id, nil
}
