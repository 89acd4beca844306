// Package directory is the read-through adapter over the hosted identity
// provider's user API. It holds no cache: every lookup is a fresh round trip
// and returns only the three projected profile fields.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"chirp/internal/core/apperr"
	userPort "chirp/internal/ports/user"
)

// lookupLimit matches the feed page size so a full page of posts always
// resolves in one batched call.
const lookupLimit = 100

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// apiUser is the subset of the provider's user object this service reads.
type apiUser struct {
	ID              string  `json:"id"`
	Username        *string `json:"username"`
	ProfileImageURL string  `json:"profile_image_url"`
}

func (c *Client) LookupByIDs(ctx context.Context, ids []string) ([]*userPort.ProfileDTO, error) {
	profiles := make([]*userPort.ProfileDTO, 0, len(ids))
	if len(ids) == 0 {
		return profiles, nil
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(lookupLimit))
	for _, id := range ids {
		q.Add("user_id", id)
	}

	users, err := c.getUsers(ctx, q)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		profiles = append(profiles, toProfileDTO(u))
	}
	return profiles, nil
}

func (c *Client) LookupByUsername(ctx context.Context, username string) (*userPort.ProfileDTO, error) {
	q := url.Values{}
	q.Set("limit", "1")
	q.Add("username", username)

	users, err := c.getUsers(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, apperr.New(apperr.KindNotFound, "profile does not exist")
	}
	return toProfileDTO(users[0]), nil
}

func (c *Client) getUsers(ctx context.Context, q url.Values) ([]apiUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/users?"+q.Encode(), nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "building user directory request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, "user directory unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperr.New(apperr.KindTransient, fmt.Sprintf("user directory returned status %d", resp.StatusCode))
	}

	var users []apiUser
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, "decoding user directory response", err)
	}
	return users, nil
}

func toProfileDTO(u apiUser) *userPort.ProfileDTO {
	username := ""
	if u.Username != nil {
		username = *u.Username
	}
	return &userPort.ProfileDTO{
		ID:       u.ID,
		Username: username,
		ImageURL: u.ProfileImageURL,
	}
}
