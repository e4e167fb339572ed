package locationrepo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/weather-outfit/internal/domain/location"
)

// ValkeyRepository persists the location list as one JSON value in Valkey.
type ValkeyRepository struct {
	client valkey.Client
	prefix string
}

// NewValkeyRepository constructs a new repository backed by Valkey.
func NewValkeyRepository(client valkey.Client, prefix string) *ValkeyRepository {
	if prefix == "" {
		prefix = "weather-outfit"
	}
	return &ValkeyRepository{client: client, prefix: prefix}
}

func (r *ValkeyRepository) Load(ctx context.Context) ([]location.Location, bool, error) {
	cmd := r.client.B().Get().Key(r.key()).Build()
	payload, err := r.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("valkey get locations: %w", err)
	}
	var locations []location.Location
	if err := json.Unmarshal([]byte(payload), &locations); err != nil {
		return nil, false, fmt.Errorf("decode locations: %w", err)
	}
	return locations, true, nil
}

func (r *ValkeyRepository) Save(ctx context.Context, locations []location.Location) error {
	if locations == nil {
		locations = []location.Location{}
	}
	payload, err := json.Marshal(capped(locations))
	if err != nil {
		return err
	}
	cmd := r.client.B().Set().Key(r.key()).Value(string(payload)).Build()
	if err := r.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("valkey set locations: %w", err)
	}
	return nil
}

func (r *ValkeyRepository) key() string {
	return fmt.Sprintf("%s:locations", r.prefix)
}

var _ location.Repository = (*ValkeyRepository)(nil)
