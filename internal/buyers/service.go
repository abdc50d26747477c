package buyers

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"buyer-lead-portal/internal/apierr"
	"buyer-lead-portal/internal/enummap"
	"buyer-lead-portal/internal/models"
	"buyer-lead-portal/internal/validation"
)

// historyDisplayLimit is how many history entries detail views return.
const historyDisplayLimit = 5

// Service orchestrates the buyer lifecycle: validation, ownership and
// concurrency checks, audit history, and persistence through the store.
type Service struct {
	store Store

	// bypassActor is exempt from ownership checks and is upserted on
	// demand (development-mode convenience).
	bypassActor string

	now   func() time.Time
	newID func() string
}

// NewService creates a buyer service on top of a transactional store.
func NewService(store Store, bypassActor string) *Service {
	return &Service{
		store:       store,
		bypassActor: bypassActor,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// Create validates a candidate record, persists it with defaults applied
// and the caller as owner, and writes the initial history entry in the
// same transaction.
func (s *Service) Create(input validation.BuyerInput, actorID string) (*models.Buyer, error) {
	if err := s.ensureBypassUser(actorID); err != nil {
		return nil, err
	}

	validated, fieldErrs := validation.ValidateBuyer(input)
	if fieldErrs != nil {
		return nil, apierr.Validation(fieldErrs)
	}

	now := s.now()
	buyer := s.buyerFromInput(validated, actorID, now)
	entry := BuildHistoryEntry(buyer.ID, actorID, nil, buyer, now)

	if err := s.store.CreateBuyer(buyer, &entry); err != nil {
		return nil, err
	}
	return buyer, nil
}

// GetByID returns a buyer together with its most recent history entries.
func (s *Service) GetByID(id string) (*models.Buyer, []models.BuyerHistory, error) {
	buyer, err := s.store.GetBuyer(id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil, apierr.NotFound("Buyer not found")
	}
	if err != nil {
		return nil, nil, err
	}

	history, err := s.store.ListHistory(id, historyDisplayLimit)
	if err != nil {
		return nil, nil, err
	}
	if history == nil {
		history = []models.BuyerHistory{}
	}
	return buyer, history, nil
}

// List returns one page of buyers matching the filters.
func (s *Service) List(filters Filters, page, limit int, sortBy, sortOrder string) ([]models.Buyer, Pagination, error) {
	q := BuildListQuery(filters, page, limit, sortBy, sortOrder)

	items, total, err := s.store.ListBuyers(q)
	if err != nil {
		return nil, Pagination{}, err
	}
	if items == nil {
		items = []models.Buyer{}
	}
	return items, BuildPagination(q, total), nil
}

// Update applies a partial update under ownership and optimistic
// concurrency rules. Fields absent from the payload keep their stored
// values; a concurrency token strictly older than the stored updatedAt
// fails with Conflict. Untokened updates race at last-write-wins, which
// is the documented policy.
func (s *Service) Update(id string, input validation.BuyerUpdateInput, actorID string) (*models.Buyer, error) {
	validated, fieldErrs := validation.ValidateBuyerUpdate(input)
	if fieldErrs != nil {
		return nil, apierr.Validation(fieldErrs)
	}

	existing, err := s.store.GetBuyer(id)
	if errors.Is(err, ErrNotFound) {
		return nil, apierr.NotFound("Buyer not found")
	}
	if err != nil {
		return nil, err
	}

	if existing.OwnerID != actorID && actorID != s.bypassActor {
		return nil, apierr.Forbidden("Not authorized to update this buyer")
	}

	if validated.UpdatedAt != nil {
		token, _ := time.Parse(time.RFC3339, *validated.UpdatedAt)
		if token.Before(existing.UpdatedAt) {
			return nil, apierr.Conflict("Record has been modified by another user. Please refresh and try again.")
		}
	}

	updated := *existing
	applyUpdate(&updated, validated)

	now := s.now()
	if !now.After(existing.UpdatedAt) {
		now = existing.UpdatedAt.Add(time.Millisecond)
	}
	updated.UpdatedAt = now

	entry := BuildHistoryEntry(id, actorID, existing, &updated, now)
	if err := s.store.UpdateBuyer(&updated, &entry); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a buyer and all of its history as one atomic unit.
func (s *Service) Delete(id, actorID string) error {
	buyer, err := s.store.GetBuyer(id)
	if errors.Is(err, ErrNotFound) {
		return apierr.NotFound("Buyer not found")
	}
	if err != nil {
		return err
	}

	if buyer.OwnerID != actorID && actorID != s.bypassActor {
		return apierr.Forbidden("Not authorized to delete this buyer")
	}

	return s.store.DeleteBuyer(id)
}

// History returns the most recent history entries for a buyer.
func (s *Service) History(buyerID string) ([]models.BuyerHistory, error) {
	if _, err := s.store.GetBuyer(buyerID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apierr.NotFound("Buyer not found")
		}
		return nil, err
	}

	history, err := s.store.ListHistory(buyerID, historyDisplayLimit)
	if err != nil {
		return nil, err
	}
	if history == nil {
		history = []models.BuyerHistory{}
	}
	return history, nil
}

// ensureBypassUser upserts the bypass actor's user row so that records
// created in development mode satisfy the owner foreign key.
func (s *Service) ensureBypassUser(actorID string) error {
	if s.bypassActor == "" || actorID != s.bypassActor {
		return nil
	}
	return s.store.EnsureUser(&models.User{
		ID:    s.bypassActor,
		Email: "dev@example.com",
		Name:  "Dev User",
	})
}

// buyerFromInput builds the stored record from a validated human-spelling
// input: enum fields are mapped to canonical spellings here, at the
// boundary, and nowhere else.
func (s *Service) buyerFromInput(in validation.BuyerInput, ownerID string, now time.Time) *models.Buyer {
	return &models.Buyer{
		ID:           s.newID(),
		OwnerID:      ownerID,
		FullName:     in.FullName,
		Email:        in.Email,
		Phone:        in.Phone,
		City:         models.City(in.City),
		PropertyType: models.PropertyType(in.PropertyType),
		BHK:          models.BHK(enummap.BHKToCanonical(in.BHK)),
		Purpose:      models.Purpose(in.Purpose),
		BudgetMin:    in.BudgetMin,
		BudgetMax:    in.BudgetMax,
		Timeline:     models.Timeline(enummap.TimelineToCanonical(in.Timeline)),
		Source:       models.Source(enummap.SourceToCanonical(in.Source)),
		Status:       models.Status(enummap.StatusToCanonical(in.Status)),
		Notes:        in.Notes,
		Tags:         models.StringList(in.Tags),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func applyUpdate(b *models.Buyer, in validation.BuyerUpdateInput) {
	if in.FullName != nil {
		b.FullName = *in.FullName
	}
	if in.Email != nil {
		b.Email = *in.Email
	}
	if in.Phone != nil {
		b.Phone = *in.Phone
	}
	if in.City != nil {
		b.City = models.City(*in.City)
	}
	if in.PropertyType != nil {
		b.PropertyType = models.PropertyType(*in.PropertyType)
	}
	if in.BHK != nil {
		b.BHK = models.BHK(enummap.BHKToCanonical(*in.BHK))
	}
	if in.Purpose != nil {
		b.Purpose = models.Purpose(*in.Purpose)
	}
	if in.BudgetMin != nil {
		b.BudgetMin = in.BudgetMin
	}
	if in.BudgetMax != nil {
		b.BudgetMax = in.BudgetMax
	}
	if in.Timeline != nil {
		b.Timeline = models.Timeline(enummap.TimelineToCanonical(*in.Timeline))
	}
	if in.Source != nil {
		b.Source = models.Source(enummap.SourceToCanonical(*in.Source))
	}
	if in.Status != nil {
		b.Status = models.Status(enummap.StatusToCanonical(*in.Status))
	}
	if in.Notes != nil {
		b.Notes = *in.Notes
	}
	// tags omitted from the payload keep the previous value
	if in.Tags != nil {
		b.Tags = models.StringList(in.Tags)
	}
}
