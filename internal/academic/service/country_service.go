package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2/log"

	"github.com/AnthoniusHendriyanto/academy-service/internal/academic/domain"
)

type CountryService struct {
	countries domain.CountryRepository
	client    *http.Client
}

func NewCountryService(countries domain.CountryRepository, client *http.Client) *CountryService {
	if client == nil {
		client = http.DefaultClient
	}
	return &CountryService{countries: countries, client: client}
}

func (s *CountryService) List(ctx context.Context) ([]domain.Country, error) {
	return s.countries.List(ctx)
}

// catalogEntry is one element of the restcountries.com payload.
type catalogEntry struct {
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	Cca2 string `json:"cca2"`
}

// Fetch downloads the public country catalogue and returns it sorted by name.
// Entries without a name or a two letter code are skipped.
func (s *CountryService) Fetch(ctx context.Context, url string) ([]domain.Country, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build countries request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch countries: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch countries: unexpected status %d", resp.StatusCode)
	}

	var entries []catalogEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode countries: %w", err)
	}

	countries := make([]domain.Country, 0, len(entries))
	for _, e := range entries {
		name := strings.TrimSpace(e.Name.Common)
		code := strings.ToUpper(strings.TrimSpace(e.Cca2))
		if name == "" || len(code) != 2 {
			continue
		}
		countries = append(countries, domain.Country{Name: name, Code: code})
	}
	sort.Slice(countries, func(i, j int) bool { return countries[i].Name < countries[j].Name })
	return countries, nil
}

// Seed fetches the catalogue and upserts every country by code. It returns
// the number of countries written.
func (s *CountryService) Seed(ctx context.Context, url string) (int, error) {
	countries, err := s.Fetch(ctx, url)
	if err != nil {
		return 0, err
	}

	for i := range countries {
		if err := s.countries.Upsert(ctx, &countries[i]); err != nil {
			return i, err
		}
	}

	log.Infof("Seeded %d countries", len(countries))
	return len(countries), nil
}
