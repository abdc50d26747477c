package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// BuyerHistory is an immutable audit entry recording one buyer mutation.
// Entries are created alongside the mutation and never updated; they are
// deleted only together with their buyer.
type BuyerHistory struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	BuyerID     string    `gorm:"type:varchar(36);not null;index:idx_history_buyer_changed" json:"buyerId"`
	ChangedByID string    `gorm:"type:varchar(36);not null" json:"changedById"`
	ChangedAt   time.Time `gorm:"type:datetime(3);not null;index:idx_history_buyer_changed,priority:2,sort:desc" json:"changedAt"`
	Diff        DiffMap   `gorm:"type:json" json:"diff"`
}

// TableName specifies the table name
func (BuyerHistory) TableName() string {
	return "buyer_histories"
}

// FieldChange holds the before/after values of one changed field.
// From is omitted when the field had no previous value (record creation).
type FieldChange struct {
	From interface{} `json:"from,omitempty"`
	To   interface{} `json:"to"`
}

// DiffMap maps field names to their change, stored as a JSON column.
type DiffMap map[string]FieldChange

// Value implements driver.Valuer.
func (d DiffMap) Value() (driver.Value, error) {
	if d == nil {
		d = DiffMap{}
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner.
func (d *DiffMap) Scan(value interface{}) error {
	if value == nil {
		*d = DiffMap{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return fmt.Errorf("cannot scan %T into DiffMap", value)
	}
}
