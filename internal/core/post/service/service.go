package postapp

import (
	"context"
	"errors"

	"chirp/internal/core/apperr"
	postEntity "chirp/internal/core/post"
	postPort "chirp/internal/ports/post"
	ratelimitPort "chirp/internal/ports/ratelimit"
	userPort "chirp/internal/ports/user"

	"github.com/gofrs/uuid"
)

// FeedLimit caps every feed query. The directory batch lookup shares the
// same cap, so a full page can never reference more authors than one
// provider call resolves.
const FeedLimit = 100

type PostService struct {
	PostRepository postPort.PostRepository
	Limiter        ratelimitPort.Limiter
	Directory      userPort.Directory
}

func NewPostService(
	postRepo postPort.PostRepository,
	limiter ratelimitPort.Limiter,
	directory userPort.Directory,
) *PostService {
	return &PostService{
		PostRepository: postRepo,
		Limiter:        limiter,
		Directory:      directory,
	}
}

// CreatePost runs the admission-controlled creation path:
// validate, then one limiter call, then at most one insert.
// The limiter and the store share no transaction; if the insert fails after
// admission the consumed window slot is not refunded.
func (s *PostService) CreatePost(ctx context.Context, authorID, content string) (*postPort.PostDTO, error) {
	if authorID == "" {
		return nil, apperr.New(apperr.KindValidation, "missing author id")
	}
	if err := postEntity.ValidateContent(content); err != nil {
		return nil, err
	}

	dec, err := s.Limiter.Allow(ctx, authorID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, "rate limiter unavailable", err)
	}
	if !dec.Allowed {
		return nil, apperr.RateLimited("too many posts, slow down", dec.RetryAfter)
	}

	p := &postEntity.Post{
		ID:       uuid.Must(uuid.NewV4()),
		AuthorID: authorID,
		Content:  content,
	}
	created, err := s.PostRepository.Create(ctx, p)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, "post store unavailable", err)
	}

	return toPostDTO(created), nil
}

// GetAll returns the most recent posts, newest first, with authors resolved.
func (s *PostService) GetAll(ctx context.Context) ([]*postPort.PostWithAuthorDTO, error) {
	posts, err := s.PostRepository.FindRecent(ctx, FeedLimit)
	if err != nil {
		return nil, storeErr(err)
	}
	return s.withAuthors(ctx, posts)
}

// GetPostsByAuthorID returns one author's most recent posts, newest first.
func (s *PostService) GetPostsByAuthorID(ctx context.Context, authorID string) ([]*postPort.PostWithAuthorDTO, error) {
	if authorID == "" {
		return nil, apperr.New(apperr.KindValidation, "missing author id")
	}
	posts, err := s.PostRepository.FindByAuthorID(ctx, authorID, FeedLimit)
	if err != nil {
		return nil, storeErr(err)
	}
	return s.withAuthors(ctx, posts)
}

// GetPostByID resolves a single post with its author.
func (s *PostService) GetPostByID(ctx context.Context, id string) (*postPort.PostWithAuthorDTO, error) {
	if id == "" {
		return nil, apperr.New(apperr.KindValidation, "missing post id")
	}
	p, err := s.PostRepository.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	joined, err := s.withAuthors(ctx, []*postEntity.Post{p})
	if err != nil {
		return nil, err
	}
	return joined[0], nil
}

// withAuthors joins posts with their author profiles through one batched
// directory lookup. A post whose author is missing from the batch, or
// resolves without a username, fails the whole call: a feed with holes in it
// means the two stores disagree, never a legitimate absence.
func (s *PostService) withAuthors(ctx context.Context, posts []*postEntity.Post) ([]*postPort.PostWithAuthorDTO, error) {
	result := make([]*postPort.PostWithAuthorDTO, 0, len(posts))
	if len(posts) == 0 {
		return result, nil
	}

	profiles, err := s.Directory.LookupByIDs(ctx, distinctAuthorIDs(posts))
	if err != nil {
		var ae *apperr.Error
		if errors.As(err, &ae) {
			return nil, err
		}
		return nil, apperr.Wrap(apperr.KindTransient, "user directory unavailable", err)
	}

	byID := make(map[string]*userPort.ProfileDTO, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	for _, p := range posts {
		author, ok := byID[p.AuthorID]
		if !ok || author.Username == "" {
			return nil, apperr.New(apperr.KindInternal, "post author could not be resolved")
		}
		result = append(result, &postPort.PostWithAuthorDTO{
			Post:   toPostDTO(p),
			Author: author,
		})
	}
	return result, nil
}

func distinctAuthorIDs(posts []*postEntity.Post) []string {
	seen := make(map[string]struct{}, len(posts))
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		if _, ok := seen[p.AuthorID]; ok {
			continue
		}
		seen[p.AuthorID] = struct{}{}
		ids = append(ids, p.AuthorID)
	}
	return ids
}

// storeErr keeps repository-classified kinds (NOT_FOUND) and treats
// everything else as downstream unavailability.
func storeErr(err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	return apperr.Wrap(apperr.KindTransient, "post store unavailable", err)
}

func toPostDTO(p *postEntity.Post) *postPort.PostDTO {
	return &postPort.PostDTO{
		ID:        p.ID.String(),
		AuthorID:  p.AuthorID,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
	}
}
