package profileapp

import (
	"context"

	"chirp/internal/core/apperr"
	userPort "chirp/internal/ports/user"
)

// ProfileService exposes the public profile lookups. The service owns no
// user data; everything is a read-through to the identity provider.
type ProfileService struct {
	Directory userPort.Directory
}

func NewProfileService(directory userPort.Directory) *ProfileService {
	return &ProfileService{Directory: directory}
}

// GetUserByUsername resolves a public profile. An unknown username is a
// NOT_FOUND surfaced to the caller, unlike the INTERNAL raised when a stored
// post references an author the directory does not know.
func (s *ProfileService) GetUserByUsername(ctx context.Context, username string) (*userPort.ProfileDTO, error) {
	if username == "" {
		return nil, apperr.New(apperr.KindValidation, "missing username")
	}
	return s.Directory.LookupByUsername(ctx, username)
}
