package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cockroachdb/errors"
)

// Favorites lists the authenticated user's favorite stations.
func (c *Client) Favorites(ctx context.Context, page, size int) (*Page, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	if size > 0 {
		query.Set("size", strconv.Itoa(size))
	}

	var result Page
	if err := c.doJSON(ctx, http.MethodGet, "/api/favorites", query, nil, &result, true); err != nil {
		return nil, err
	}
	return &result, nil
}

// AddFavorite marks a station as favorite by its backend identifier.
func (c *Client) AddFavorite(ctx context.Context, stationID string) error {
	if stationID == "" {
		return errors.New("station id is required")
	}
	return c.doJSON(ctx, http.MethodPost, "/api/favorites/"+url.PathEscape(stationID), nil, nil, nil, true)
}

// RemoveFavorite removes a station from the favorites.
func (c *Client) RemoveFavorite(ctx context.Context, stationID string) error {
	if stationID == "" {
		return errors.New("station id is required")
	}
	return c.doJSON(ctx, http.MethodDelete, "/api/favorites/"+url.PathEscape(stationID), nil, nil, nil, true)
}
