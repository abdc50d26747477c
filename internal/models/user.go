package models

import "time"

// User is the owner of buyer records. Users are created on first login
// through the magic-link flow.
type User struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Name      string    `gorm:"type:varchar(100)" json:"name,omitempty"`
	CreatedAt time.Time `gorm:"type:datetime(3);not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:datetime(3);not null;autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}
