package identity

import "context"

// Directory adapts a Repository to the lookup views the wallet and transfer
// packages consume, keeping those packages free of identity internals.
type Directory struct {
	Repo Repository
}

// UserIDByEmail resolves a recipient email to a user id.
func (d Directory) UserIDByEmail(ctx context.Context, email string) (string, error) {
	user, err := d.Repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

// EmailByUserID resolves a user id to its email for movement projections.
func (d Directory) EmailByUserID(ctx context.Context, id string) (string, error) {
	user, err := d.Repo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	return user.Email, nil
}
