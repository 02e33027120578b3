package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Brand struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"unique;not null"          json:"name"`
}

type TVDisplayTechnology struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"unique;not null"          json:"name"`
	Description string `json:"description"`
}

type TVDisplayResolution struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"unique;not null"          json:"name"`
}

type TVOperationSystem struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"unique;not null"          json:"name"`
}

type Category struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"not null"                 json:"name"`
}

type Television struct {
	ID                  uint                `gorm:"primaryKey;autoIncrement"  json:"id"`
	BrandID             uint                `gorm:"not null;index"            json:"brand_id"`
	Brand               Brand               `json:"brand"`
	BrandModel          string              `gorm:"not null"                  json:"brand_model"`
	ReleasedYear        int                 `gorm:"not null"                  json:"released_year"`
	ScreenSize          int                 `gorm:"not null"                  json:"screen_size"`
	SmartTV             bool                `gorm:"default:true"              json:"smart_tv"`
	RefreshRate         int                 `json:"refresh_rate"`
	DisplayTechnologyID uint                `gorm:"not null;index"            json:"display_technology_id"`
	DisplayTechnology   TVDisplayTechnology `json:"display_technology"`
	DisplayResolutionID uint                `gorm:"not null;index"            json:"display_resolution_id"`
	DisplayResolution   TVDisplayResolution `json:"display_resolution"`
	OperationSystemID   uint                `gorm:"not null"                  json:"operation_system_id"`
	OperationSystem     TVOperationSystem   `json:"operation_system"`
	Description         string              `json:"description"`
	Categories          []Category          `gorm:"many2many:television_categories" json:"categories,omitempty"`
	Price               decimal.Decimal     `gorm:"type:decimal(10,2);not null"     json:"price"`
	ImagePath           string              `json:"image_path,omitempty"`
}

type MobileOperationSystem struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"unique;not null"          json:"name"`
}

type MobileRAM struct {
	ID   uint `gorm:"primaryKey;autoIncrement" json:"id"`
	Size int  `gorm:"unique"                   json:"size"`
}

type MobileUserMemory struct {
	ID   uint `gorm:"primaryKey;autoIncrement" json:"id"`
	Size int  `gorm:"unique"                   json:"size"`
}

type MobileConstruction struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"unique;not null"          json:"name"`
}

type MobileDisplay struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"unique;not null"          json:"name"`
}

type MobilePhone struct {
	ID                uint                  `gorm:"primaryKey;autoIncrement"  json:"id"`
	BrandID           uint                  `gorm:"not null;index"            json:"brand_id"`
	Brand             Brand                 `json:"brand"`
	MobileModel       string                `gorm:"not null"                  json:"mobile_model"`
	ReleasedYear      int                   `gorm:"not null"                  json:"released_year"`
	ScreenSize        decimal.Decimal       `gorm:"type:decimal(4,2)"         json:"screen_size"`
	SmartPhone        bool                  `gorm:"default:true"              json:"smart_phone"`
	OperationSystemID uint                  `gorm:"not null"                  json:"operation_system_id"`
	OperationSystem   MobileOperationSystem `json:"operation_system"`
	RAMID             uint                  `gorm:"not null"                  json:"ram_id"`
	RAM               MobileRAM             `gorm:"foreignKey:RAMID"          json:"ram"`
	UserMemoryID      uint                  `gorm:"not null"                  json:"user_memory_id"`
	UserMemory        MobileUserMemory      `json:"user_memory"`
	ConstructionID    uint                  `gorm:"not null"                  json:"construction_id"`
	Construction      MobileConstruction    `json:"construction"`
	DisplayID         uint                  `gorm:"not null"                  json:"display_id"`
	Display           MobileDisplay         `json:"display"`
	Description       string                `json:"description"`
	Categories        []Category            `gorm:"many2many:mobile_phone_categories" json:"categories,omitempty"`
	Price             decimal.Decimal       `gorm:"type:decimal(10,2);not null"       json:"price"`
	ImagePath         string                `json:"image_path,omitempty"`
}

// StockLevel tracks the on-hand quantity for one television. Quantity never
// goes below zero.
type StockLevel struct {
	ID           uint `gorm:"primaryKey"              json:"id"`
	TelevisionID uint `gorm:"uniqueIndex;not null"    json:"television_id"`
	Quantity     uint `gorm:"not null;default:0"      json:"quantity"`
}

type Group struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"unique;not null"          json:"name"`
}

type User struct {
	ID           uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string  `gorm:"unique;not null"          json:"username"`
	Email        string  `json:"email"`
	PasswordHash string  `gorm:"not null"                 json:"-"`
	Superuser    bool    `gorm:"default:false"            json:"superuser"`
	Groups       []Group `gorm:"many2many:user_groups"    json:"groups,omitempty"`
}

type Profile struct {
	ID                   uint       `gorm:"primaryKey"           json:"id"`
	UserID               uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	FirstName            string     `json:"first_name"`
	LastName             string     `json:"last_name"`
	PhoneNumber          string     `json:"phone_number"`
	DateOfBirth          *time.Time `json:"date_of_birth,omitempty"`
	Address              string     `json:"address"`
	City                 string     `json:"city"`
	Zipcode              string     `json:"zipcode"`
	Role                 string     `gorm:"default:USER"  json:"role"`
	CommunicationChannel string     `gorm:"default:EMAIL" json:"communication_channel"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"          json:"id"`
	Token     string `gorm:"unique;not null"     json:"token"`
	UserID    uint   `gorm:"index;not null"      json:"user_id"`
	Role      string `json:"role"`
	ExpiresAt int64  `gorm:"not null"            json:"expires_at"`
	Revoked   bool   `gorm:"default:false"       json:"revoked"`
}

type OrderStatus string

const (
	OrderStatusSubmitted      OrderStatus = "submitted"
	OrderStatusPendingPayment OrderStatus = "pending_payment"
	OrderStatusProcessing     OrderStatus = "processing"
	OrderStatusOnHold         OrderStatus = "on_hold"
	OrderStatusDispatched     OrderStatus = "dispatched"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
	OrderStatusRefunded       OrderStatus = "refunded"
	OrderStatusReturned       OrderStatus = "returned"
	OrderStatusCompleted      OrderStatus = "completed"
)

// Order is the persisted purchase record. OrderID is the only identifier
// exposed outside the service, the numeric primary key never leaves the API.
// The shipping fields are a snapshot taken at submission, not a live
// reference to the profile.
type Order struct {
	ID           uint          `gorm:"primaryKey;autoIncrement" json:"-"`
	OrderID      uuid.UUID     `gorm:"type:uuid;uniqueIndex;not null" json:"order_id"`
	UserID       uint          `gorm:"index;not null"           json:"user_id"`
	User         User          `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	Televisions  []Television  `gorm:"many2many:order_televisions"   json:"televisions,omitempty"`
	MobilePhones []MobilePhone `gorm:"many2many:order_mobile_phones" json:"mobile_phones,omitempty"`
	FirstName    string        `json:"first_name"`
	LastName     string        `json:"last_name"`
	Address      string        `json:"address"`
	City         string        `json:"city"`
	Zipcode      string        `json:"zipcode"`
	PhoneNumber  string        `json:"phone_number"`
	Status       OrderStatus   `gorm:"not null;default:submitted" json:"status"`
	CreatedAt    time.Time     `gorm:"not null"                   json:"created_at"`
}

// CartEntry is one line of the session cart. Price is snapshotted as text
// when the item first enters the cart and is not re-read on increments.
type CartEntry struct {
	Name     string `json:"name"`
	Model    string `json:"model"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
}

// Cart lives in the session store keyed by television ID as a string.
// It is never persisted to the relational DB.
type Cart map[string]CartEntry
