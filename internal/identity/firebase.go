package identity

import (
	"context"
	"errors"

	"firebase.google.com/go/v4/auth"
	"github.com/hieulm/writeuphub/backend/internal/repositories"
)

// TokenVerifier verifies an externally issued ID token and returns the
// provider's stable UID for the caller.
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (string, error)
}

// FirebaseVerifier verifies Firebase ID tokens.
type FirebaseVerifier struct {
	authClient *auth.Client
}

// NewFirebaseVerifier creates a FirebaseVerifier over the given auth client.
func NewFirebaseVerifier(authClient *auth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{authClient: authClient}
}

// Verify checks the ID token and returns the Firebase UID it carries.
func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (string, error) {
	token, err := v.authClient.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", ErrUnauthenticated
	}
	return token.UID, nil
}

// FirebaseResolver verifies Firebase ID tokens and maps the Firebase UID to
// a provisioned account. The UID is linked at registration, where the same
// verifier checks the ID token submitted alongside the account fields.
type FirebaseResolver struct {
	verifier TokenVerifier
	accounts repositories.AccountRepository
}

// NewFirebaseResolver creates a FirebaseResolver over the given verifier and
// account store.
func NewFirebaseResolver(verifier TokenVerifier, accountRepo repositories.AccountRepository) *FirebaseResolver {
	return &FirebaseResolver{verifier: verifier, accounts: accountRepo}
}

// Resolve verifies the ID token and looks up the account linked to its UID.
// A valid token without a provisioned account still fails: the account must
// exist before it can act.
func (r *FirebaseResolver) Resolve(ctx context.Context, credential string) (uint, error) {
	uid, err := r.verifier.Verify(ctx, credential)
	if err != nil {
		return 0, ErrUnauthenticated
	}
	account, err := r.accounts.GetByFirebaseUID(uid)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return 0, ErrUnauthenticated
		}
		return 0, err
	}
	return account.ID, nil
}
