package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Buyer represents a single sales lead.
type Buyer struct {
	ID      string `gorm:"type:varchar(36);primaryKey" json:"id"`
	OwnerID string `gorm:"type:varchar(36);not null;index" json:"ownerId"`

	FullName     string       `gorm:"type:varchar(80);not null" json:"fullName"`
	Email        string       `gorm:"type:varchar(255);index" json:"email,omitempty"`
	Phone        string       `gorm:"type:varchar(15);not null;index" json:"phone"`
	City         City         `gorm:"type:varchar(20);not null;index" json:"city"`
	PropertyType PropertyType `gorm:"type:varchar(20);not null;index" json:"propertyType"`
	BHK          BHK          `gorm:"type:varchar(10)" json:"bhk,omitempty"`
	Purpose      Purpose      `gorm:"type:varchar(10);not null" json:"purpose"`
	BudgetMin    *int         `gorm:"type:int" json:"budgetMin,omitempty"`
	BudgetMax    *int         `gorm:"type:int" json:"budgetMax,omitempty"`
	Timeline     Timeline     `gorm:"type:varchar(30);not null;index" json:"timeline"`
	Source       Source       `gorm:"type:varchar(20);not null" json:"source"`
	Status       Status       `gorm:"type:varchar(20);not null;default:'NEW';index" json:"status"`
	Notes        string       `gorm:"type:text" json:"notes,omitempty"`
	Tags         StringList   `gorm:"type:json" json:"tags"`

	// Timestamps are assigned by the service so that updatedAt stays the
	// strictly-increasing concurrency token; GORM must not overwrite them.
	CreatedAt time.Time `gorm:"type:datetime(3);not null;autoCreateTime:false" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:datetime(3);not null;autoUpdateTime:false;index:idx_buyers_updated_at,sort:desc" json:"updatedAt"`
}

// TableName specifies the table name
func (Buyer) TableName() string {
	return "buyers"
}

// City is the stored city enumeration.
type City string

const (
	CityChandigarh City = "Chandigarh"
	CityMohali     City = "Mohali"
	CityZirakpur   City = "Zirakpur"
	CityPanchkula  City = "Panchkula"
	CityOther      City = "Other"
)

// PropertyType is the stored property type enumeration.
type PropertyType string

const (
	PropertyTypeApartment PropertyType = "Apartment"
	PropertyTypeVilla     PropertyType = "Villa"
	PropertyTypePlot      PropertyType = "Plot"
	PropertyTypeOffice    PropertyType = "Office"
	PropertyTypeRetail    PropertyType = "Retail"
)

// BHK is the stored bedroom-count class (canonical spelling).
type BHK string

const (
	BHKOne    BHK = "ONE"
	BHKTwo    BHK = "TWO"
	BHKThree  BHK = "THREE"
	BHKFour   BHK = "FOUR"
	BHKStudio BHK = "Studio"
)

// Purpose is the stored purchase purpose enumeration.
type Purpose string

const (
	PurposeBuy  Purpose = "Buy"
	PurposeRent Purpose = "Rent"
)

// Timeline is the stored purchase timeline (canonical spelling).
type Timeline string

const (
	TimelineZeroToThree Timeline = "ZERO_TO_THREE_MONTHS"
	TimelineThreeToSix  Timeline = "THREE_TO_SIX_MONTHS"
	TimelineMoreThanSix Timeline = "MORE_THAN_SIX_MONTHS"
	TimelineExploring   Timeline = "Exploring"
)

// Source is the stored lead source (canonical spelling).
type Source string

const (
	SourceWebsite  Source = "Website"
	SourceReferral Source = "Referral"
	SourceWalkIn   Source = "Walk_in"
	SourceCall     Source = "Call"
	SourceOther    Source = "Other"
)

// Status is the stored lead status (canonical spelling).
type Status string

const (
	StatusNew         Status = "NEW"
	StatusQualified   Status = "Qualified"
	StatusContacted   Status = "Contacted"
	StatusVisited     Status = "Visited"
	StatusNegotiation Status = "Negotiation"
	StatusConverted   Status = "Converted"
	StatusDropped     Status = "Dropped"
)

// RequiresBHK reports whether the property type mandates a bedroom class.
func (pt PropertyType) RequiresBHK() bool {
	return pt == PropertyTypeApartment || pt == PropertyTypeVilla
}

// StringList stores an ordered list of strings as a JSON column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
}
