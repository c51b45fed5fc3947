package gazetteer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
)

// Client fetches the governorate and city reference lists from the platform
// API. One fetch per import session, before resolution runs.
type Client struct {
	http    *retryablehttp.Client
	baseURL string
	token   string
	logger  *slog.Logger
}

// NewClient builds a reference-data client for the platform API.
func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	hc := retryablehttp.NewClient()
	hc.RetryMax = 3
	hc.Logger = nil
	return &Client{
		http:    hc,
		baseURL: baseURL,
		token:   token,
		logger:  logger,
	}
}

type governorateResponse struct {
	ID     int64          `json:"id"`
	NameEn string         `json:"name_en"`
	NameAr string         `json:"name_ar"`
	Cities []cityResponse `json:"cities"`
}

type cityResponse struct {
	ID     int64  `json:"id"`
	NameEn string `json:"name_en"`
	NameAr string `json:"name_ar"`
}

// FetchResolver loads all governorates with their nested cities and returns a
// ready Resolver.
func (c *Client) FetchResolver(ctx context.Context) (*Resolver, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/governorates?include=cities", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build reference data request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reference data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reference data request returned status %d", resp.StatusCode)
	}

	var payload []governorateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode reference data: %w", err)
	}

	governorates := make([]Governorate, 0, len(payload))
	var cities []City
	for _, g := range payload {
		governorates = append(governorates, Governorate{ID: g.ID, NameEn: g.NameEn, NameAr: g.NameAr})
		for _, city := range g.Cities {
			cities = append(cities, City{
				ID:            city.ID,
				GovernorateID: g.ID,
				NameEn:        city.NameEn,
				NameAr:        city.NameAr,
			})
		}
	}

	c.logger.Info("reference data loaded",
		"governorates", len(governorates),
		"cities", len(cities))

	return NewResolver(governorates, cities), nil
}
