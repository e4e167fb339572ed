package location

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	apperrors "github.com/yanqian/weather-outfit/pkg/errors"
)

// Service manages the bounded list of saved locations.
type Service interface {
	List(ctx context.Context) ([]Location, error)
	Add(ctx context.Context, candidate Candidate) (AddResult, error)
	AddByQuery(ctx context.Context, req AddRequest) (AddResult, error)
	Remove(ctx context.Context, id string) ([]Location, error)
}

type service struct {
	cfg      Config
	repo     Repository
	geocoder Geocoder
	validate *validator.Validate
	logger   *slog.Logger
	newID    func() string

	// mu scopes every read-modify-write against the repository.
	mu sync.Mutex
}

// NewService wires up the location registry.
func NewService(cfg Config, repo Repository, geocoder Geocoder, logger *slog.Logger) Service {
	return &service{
		cfg:      cfg,
		repo:     repo,
		geocoder: geocoder,
		validate: validator.New(),
		logger:   logger.With("component", "location.service"),
		newID:    uuid.NewString,
	}
}

func (s *service) List(ctx context.Context) ([]Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *service) Add(ctx context.Context, candidate Candidate) (AddResult, error) {
	candidate.Name = strings.TrimSpace(candidate.Name)
	if err := s.validate.Struct(candidate); err != nil {
		return AddResult{}, apperrors.Wrap(CodeInvalidInput, "location candidate is invalid", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.loadLocked(ctx)
	if err != nil {
		return AddResult{}, err
	}
	if len(current) >= MaxLocations {
		return AddResult{}, capacityError()
	}

	created := Location{
		ID:        s.newID(),
		Name:      candidate.Name,
		Latitude:  candidate.Latitude,
		Longitude: candidate.Longitude,
	}
	next := append(clone(current), created)
	if err := s.repo.Save(ctx, next); err != nil {
		return AddResult{}, apperrors.Wrap(CodeStorage, "failed to save locations", err)
	}
	s.logger.Info("location added", "id", created.ID, "name", created.Name, "count", len(next))
	return AddResult{Location: created, Locations: next}, nil
}

func (s *service) AddByQuery(ctx context.Context, req AddRequest) (AddResult, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return AddResult{}, apperrors.Wrap(CodeInvalidInput, "query is required", nil)
	}

	// Reject early so a full registry never reaches the geocoder. Add re-checks
	// under the lock.
	current, err := s.List(ctx)
	if err != nil {
		return AddResult{}, err
	}
	if len(current) >= MaxLocations {
		return AddResult{}, capacityError()
	}

	candidate, err := s.geocoder.Search(ctx, query)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return AddResult{}, apperrors.Wrap(CodeNotFound, "no location matched the query", err)
		}
		return AddResult{}, apperrors.Wrap(CodeGeocodeFailed, "location search failed", err)
	}
	return s.Add(ctx, candidate)
}

func (s *service) Remove(ctx context.Context, id string) ([]Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.loadLocked(ctx)
	if err != nil {
		return nil, err
	}
	next := make([]Location, 0, len(current))
	for _, loc := range current {
		if loc.ID != id {
			next = append(next, loc)
		}
	}
	if err := s.repo.Save(ctx, next); err != nil {
		return nil, apperrors.Wrap(CodeStorage, "failed to save locations", err)
	}
	if len(next) != len(current) {
		s.logger.Info("location removed", "id", id, "count", len(next))
	}
	return next, nil
}

func (s *service) loadLocked(ctx context.Context) ([]Location, error) {
	stored, found, err := s.repo.Load(ctx)
	if err != nil {
		return nil, apperrors.Wrap(CodeStorage, "failed to load locations", err)
	}
	if !found {
		seeded := s.seed()
		if err := s.repo.Save(ctx, seeded); err != nil {
			return nil, apperrors.Wrap(CodeStorage, "failed to seed locations", err)
		}
		s.logger.Info("location registry seeded", "count", len(seeded))
		return seeded, nil
	}
	if len(stored) > MaxLocations {
		stored = stored[:MaxLocations]
	}
	return clone(stored), nil
}

func (s *service) seed() []Location {
	defaults := s.cfg.Defaults
	if len(defaults) > MaxLocations {
		defaults = defaults[:MaxLocations]
	}
	out := make([]Location, 0, len(defaults))
	for _, c := range defaults {
		out = append(out, Location{ID: s.newID(), Name: c.Name, Latitude: c.Latitude, Longitude: c.Longitude})
	}
	return out
}

func capacityError() error {
	return apperrors.Wrap(CodeCapacityExceeded, fmt.Sprintf("at most %d locations can be saved", MaxLocations), nil)
}

func clone(in []Location) []Location {
	out := make([]Location, len(in))
	copy(out, in)
	return out
}
