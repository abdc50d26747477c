package buyers

import (
	"errors"

	"buyer-lead-portal/internal/models"
)

// ErrNotFound is returned by stores when a referenced record is absent.
var ErrNotFound = errors.New("record not found")

// Store is the transactional record store the service runs against.
// Implementations must guarantee that the buyer+history pairs of
// CreateBuyer, UpdateBuyer and ImportBuyers commit atomically, and that
// DeleteBuyer removes the record and all its history as one unit.
// Constraint violations are translated into the apierr taxonomy by the
// implementation.
type Store interface {
	EnsureUser(user *models.User) error
	GetUserByEmail(email string) (*models.User, error)

	GetBuyer(id string) (*models.Buyer, error)
	CreateBuyer(buyer *models.Buyer, entry *models.BuyerHistory) error
	UpdateBuyer(buyer *models.Buyer, entry *models.BuyerHistory) error
	DeleteBuyer(id string) error

	ListBuyers(q ListQuery) ([]models.Buyer, int64, error)
	ListAllBuyers(q ListQuery) ([]models.Buyer, error)
	ListHistory(buyerID string, limit int) ([]models.BuyerHistory, error)

	ImportBuyers(buyers []models.Buyer, entries []models.BuyerHistory) error

	CountByStatus() (map[string]int64, error)
}
