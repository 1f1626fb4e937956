// internal/store/models.go
package store

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	UnitCase  = "case"
	UnitPiece = "piece"
)

// products
type Product struct {
	ID          string  `gorm:"primaryKey;size:36"`
	Name        string  `gorm:"index"`
	ImageURL    *string `gorm:"type:text"` // data URI, can be large
	CompanyName string  `gorm:"index"`
	BatchCode   string  `gorm:"index;size:4"` // 4-digit zero-padded import run tag
	CreatedAt   time.Time
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// suppliers
type Supplier struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"uniqueIndex"`
	CreatedAt time.Time
}

func (s *Supplier) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// order_sessions: one archived order cycle.
type OrderSession struct {
	ID        string `gorm:"primaryKey;size:36"`
	Label     string `gorm:"index"` // SESSION_<unix millis>, kept for display
	Name      string // optional user-given name
	CreatedAt time.Time `gorm:"index"`
}

func (s *OrderSession) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// order_items: denormalized line items. ProductName/CompanyName/ImageURL are
// snapshots taken at archive time; they are never re-validated on write and
// must survive deletion of the referenced product.
type OrderItem struct {
	ID          string  `gorm:"primaryKey;size:36"`
	SessionID   string  `gorm:"index;not null"`
	ProductID   *string `gorm:"index"` // nil for manual entries
	ProductName string
	CompanyName string
	ImageURL    *string `gorm:"type:text"`
	Stock       string
	Quantity    float64
	Unit        string `gorm:"size:8"` // case | piece
	CreatedAt   time.Time
}

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// simple_order_sessions: the parallel simple-order variant. The session with
// a null EndedAt is the active one.
type SimpleOrderSession struct {
	ID        string `gorm:"primaryKey;size:36"`
	CreatedAt time.Time
	EndedAt   *time.Time `gorm:"index"`
}

func (s *SimpleOrderSession) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// simple_orders
type SimpleOrder struct {
	ID          string `gorm:"primaryKey;size:36"`
	SessionID   string `gorm:"index;not null"`
	ProductName string
	CompanyName string
	Quantity    float64
	CreatedAt   time.Time
}

func (o *SimpleOrder) BeforeCreate(*gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}
