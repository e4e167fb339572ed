package location

import "context"

// Repository persists the ordered location list as a whole.
type Repository interface {
	// Load returns the stored list. found is false when nothing was ever stored.
	Load(ctx context.Context) (locations []Location, found bool, err error)
	// Save replaces the stored list.
	Save(ctx context.Context, locations []Location) error
}

// Geocoder resolves a free-text query into a candidate location.
type Geocoder interface {
	Search(ctx context.Context, query string) (Candidate, error)
}
