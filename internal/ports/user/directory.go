package user

import "context"

// Directory is the outbound port to the hosted identity provider. Only the
// three projected fields ever cross this boundary, so tests and future
// provider swaps only have to satisfy this contract.
type Directory interface {
	// LookupByIDs resolves a batch of author ids in a single provider call.
	// Ids with no matching user are simply absent from the result.
	LookupByIDs(ctx context.Context, ids []string) ([]*ProfileDTO, error)
	// LookupByUsername fails with a NOT_FOUND kind when no user has the
	// given username.
	LookupByUsername(ctx context.Context, username string) (*ProfileDTO, error)
}

// ProfileDTO is a read-only, possibly stale projection of an externally
// owned user record. Username is empty when the provider has none on file.
type ProfileDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	ImageURL string `json:"profile_image_url"`
}
