package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/wavedial/wavedial/internal/domain/station"
)

// recommendationsResponse is the backend's recommendations payload.
type recommendationsResponse struct {
	Recommendations []station.Station `json:"recommendations"`
	Reason          string            `json:"reason"`
}

// Recommendations fetches the ranked station list derived for the
// authenticated user, along with the backend's textual rationale.
func (c *Client) Recommendations(ctx context.Context, limit int) ([]station.Station, string, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var resp recommendationsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/recommendations", query, nil, &resp, true); err != nil {
		return nil, "", err
	}
	return resp.Recommendations, resp.Reason, nil
}
