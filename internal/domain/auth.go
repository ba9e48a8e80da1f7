package domain

import "context"

// TokenVerifier verifies an identity-provider token and returns the external subject it was issued to.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (subject string, err error)
}
