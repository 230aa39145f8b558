package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/prattikkk/Incubyte/internal/api"
	"github.com/prattikkk/Incubyte/internal/models"
)

const sweetsPath = "/api/sweets"

// SweetService is the facade translating storefront intents into inventory
// REST operations. It keeps no local cache: after any successful mutation the
// caller re-lists, and the last refresh to complete determines displayed state.
type SweetService struct {
	api *api.Client
	log zerolog.Logger
}

func NewSweetService(apiClient *api.Client, log zerolog.Logger) *SweetService {
	return &SweetService{
		api: apiClient,
		log: log,
	}
}

// SweetInput is a create/update payload with numeric fields already coerced.
type SweetInput struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// ParseSweetInput coerces raw form text into a SweetInput. Malformed numbers
// are rejected here, before anything goes on the wire.
func ParseSweetInput(name, category, price, quantity string) (SweetInput, error) {
	name = strings.TrimSpace(name)
	category = strings.TrimSpace(category)

	if name == "" {
		return SweetInput{}, fmt.Errorf("name is required: %w", ErrInvalidInput)
	}
	if category == "" {
		return SweetInput{}, fmt.Errorf("category is required: %w", ErrInvalidInput)
	}

	p, err := strconv.ParseFloat(strings.TrimSpace(price), 64)
	if err != nil {
		return SweetInput{}, fmt.Errorf("price %q is not a number: %w", price, ErrInvalidInput)
	}
	if p < 0 {
		return SweetInput{}, fmt.Errorf("price must not be negative: %w", ErrInvalidInput)
	}

	q, err := strconv.Atoi(strings.TrimSpace(quantity))
	if err != nil {
		return SweetInput{}, fmt.Errorf("quantity %q is not a whole number: %w", quantity, ErrInvalidInput)
	}
	if q < 0 {
		return SweetInput{}, fmt.Errorf("quantity must not be negative: %w", ErrInvalidInput)
	}

	return SweetInput{Name: name, Category: category, Price: p, Quantity: q}, nil
}

// ParseQueryFilter coerces raw filter text into a QueryFilter. Blank fields
// stay absent so they are omitted from the outbound query entirely.
func ParseQueryFilter(name, category, minPrice, maxPrice string) (models.QueryFilter, error) {
	filter := models.QueryFilter{
		Name:     strings.TrimSpace(name),
		Category: strings.TrimSpace(category),
	}

	if v := strings.TrimSpace(minPrice); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return models.QueryFilter{}, fmt.Errorf("min price %q is not a number: %w", minPrice, ErrInvalidInput)
		}
		filter.MinPrice = &p
	}
	if v := strings.TrimSpace(maxPrice); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return models.QueryFilter{}, fmt.Errorf("max price %q is not a number: %w", maxPrice, ErrInvalidInput)
		}
		filter.MaxPrice = &p
	}

	return filter, nil
}

// List fetches sweets matching filter, in the order the server returned them.
func (s *SweetService) List(ctx context.Context, filter models.QueryFilter) ([]models.Sweet, error) {
	var sweets []models.Sweet
	if err := s.api.Get(ctx, sweetsPath, filter.Values(), &sweets); err != nil {
		return nil, mapBackendError(err, "failed to load sweets")
	}
	return sweets, nil
}

func (s *SweetService) Create(ctx context.Context, input SweetInput) (models.Sweet, error) {
	var created models.Sweet
	if err := s.api.Post(ctx, sweetsPath, nil, input, &created); err != nil {
		return models.Sweet{}, mapBackendError(err, "create failed")
	}
	s.log.Info().Int64("id", created.ID).Str("name", created.Name).Msg("sweet created")
	return created, nil
}

func (s *SweetService) Update(ctx context.Context, id int64, input SweetInput) (models.Sweet, error) {
	var updated models.Sweet
	if err := s.api.Put(ctx, sweetPath(id), input, &updated); err != nil {
		return models.Sweet{}, mapBackendError(err, "update failed")
	}
	s.log.Info().Int64("id", id).Msg("sweet updated")
	return updated, nil
}

func (s *SweetService) Remove(ctx context.Context, id int64) error {
	if err := s.api.Delete(ctx, sweetPath(id)); err != nil {
		return mapBackendError(err, "delete failed")
	}
	s.log.Info().Int64("id", id).Msg("sweet deleted")
	return nil
}

// Restock adds stock. The backend rejects non-positive quantities, so anything
// below 1 is clamped to 1 rather than sent as-is.
func (s *SweetService) Restock(ctx context.Context, id int64, quantity int) (models.Sweet, error) {
	if quantity < 1 {
		quantity = 1
	}

	query := url.Values{}
	query.Set("quantity", strconv.Itoa(quantity))

	var sweet models.Sweet
	if err := s.api.Post(ctx, sweetPath(id)+"/restock", query, nil, &sweet); err != nil {
		return models.Sweet{}, mapBackendError(err, "restock failed")
	}
	s.log.Info().Int64("id", id).Int("quantity", quantity).Msg("sweet restocked")
	return sweet, nil
}

// Purchase buys quantity units. Whether stock suffices is the backend's call;
// an oversell comes back as a conflict, never decided client-side.
func (s *SweetService) Purchase(ctx context.Context, id int64, quantity int) (models.Sweet, error) {
	if quantity < 1 {
		return models.Sweet{}, fmt.Errorf("purchase quantity must be at least 1: %w", ErrInvalidInput)
	}

	query := url.Values{}
	query.Set("quantity", strconv.Itoa(quantity))

	var sweet models.Sweet
	if err := s.api.Post(ctx, sweetPath(id)+"/purchase", query, nil, &sweet); err != nil {
		return models.Sweet{}, mapBackendError(err, "purchase failed")
	}
	s.log.Info().Int64("id", id).Int("quantity", quantity).Msg("sweet purchased")
	return sweet, nil
}

func sweetPath(id int64) string {
	return fmt.Sprintf("%s/%d", sweetsPath, id)
}
