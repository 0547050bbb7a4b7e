package repository

import (
	"fmt"

	"github.com/yourusername/dealflow/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Deal     DealRepository
	Position PositionRepository
	Review   ReviewRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Deal:     NewPostgresDealRepository(db),
		Position: NewPostgresPositionRepository(db),
		Review:   NewPostgresReviewRepository(db),
	}, nil
}
