package buyers

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"buyer-lead-portal/internal/models"
)

// snapshotFields lists the buyer attributes tracked by the audit history,
// in export order. id, createdAt and updatedAt are deliberately excluded.
var snapshotFields = []string{
	"fullName", "email", "phone", "city", "propertyType", "bhk", "purpose",
	"budgetMin", "budgetMax", "timeline", "source", "status", "notes",
	"tags", "ownerId",
}

func snapshot(b *models.Buyer) map[string]interface{} {
	tags := b.Tags
	if tags == nil {
		tags = models.StringList{}
	}
	return map[string]interface{}{
		"fullName":     b.FullName,
		"email":        b.Email,
		"phone":        b.Phone,
		"city":         string(b.City),
		"propertyType": string(b.PropertyType),
		"bhk":          string(b.BHK),
		"purpose":      string(b.Purpose),
		"budgetMin":    b.BudgetMin,
		"budgetMax":    b.BudgetMax,
		"timeline":     string(b.Timeline),
		"source":       string(b.Source),
		"status":       string(b.Status),
		"notes":        b.Notes,
		"tags":         tags,
		"ownerId":      b.OwnerID,
	}
}

// BuildHistoryEntry computes the field-level diff between two buyer
// snapshots and wraps it into an audit entry. A nil old snapshot means
// record creation: every tracked field appears in the diff with no "from"
// value. The diff is empty only when old and new are attribute-wise
// identical.
func BuildHistoryEntry(buyerID, actorID string, old, new_ *models.Buyer, at time.Time) models.BuyerHistory {
	diff := models.DiffMap{}
	newSnap := snapshot(new_)

	var oldSnap map[string]interface{}
	if old != nil {
		oldSnap = snapshot(old)
	}

	for _, field := range snapshotFields {
		newVal := newSnap[field]
		if oldSnap == nil {
			diff[field] = models.FieldChange{To: newVal}
			continue
		}
		oldVal := oldSnap[field]
		if !serializedEqual(oldVal, newVal) {
			diff[field] = models.FieldChange{From: oldVal, To: newVal}
		}
	}

	return models.BuyerHistory{
		ID:          uuid.NewString(),
		BuyerID:     buyerID,
		ChangedByID: actorID,
		ChangedAt:   at,
		Diff:        diff,
	}
}

// serializedEqual compares two values by their JSON serialization so that
// pointer and slice fields are compared by content.
func serializedEqual(a, b interface{}) bool {
	aj, errA := json.Marshal(a)
	bj, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return string(aj) == string(bj)
}
