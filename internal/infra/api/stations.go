package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/wavedial/wavedial/internal/domain/station"
)

// Page is the backend's pagination envelope for station lists.
type Page struct {
	Content       []station.Station `json:"content"`
	Page          int               `json:"page"`
	Size          int               `json:"size"`
	TotalElements int64             `json:"totalElements"`
	TotalPages    int               `json:"totalPages"`
	First         bool              `json:"first"`
	Last          bool              `json:"last"`
}

// SearchParams are the station search filters. Zero values are omitted
// from the query.
type SearchParams struct {
	Name     string
	Country  string
	Language string
	Tags     string
	Page     int
	Size     int
}

// SearchStations queries the backend's station search.
func (c *Client) SearchStations(ctx context.Context, p SearchParams) (*Page, error) {
	query := url.Values{}
	if p.Name != "" {
		query.Set("name", p.Name)
	}
	if p.Country != "" {
		query.Set("country", p.Country)
	}
	if p.Language != "" {
		query.Set("language", p.Language)
	}
	if p.Tags != "" {
		query.Set("tags", p.Tags)
	}
	query.Set("page", strconv.Itoa(p.Page))
	if p.Size > 0 {
		query.Set("size", strconv.Itoa(p.Size))
	}

	var page Page
	if err := c.doJSON(ctx, http.MethodGet, "/api/stations/search", query, nil, &page, true); err != nil {
		return nil, err
	}
	return &page, nil
}
