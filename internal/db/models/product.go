package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ImageList is the ordered list of stored image references of a product.
// The first entry is the thumbnail. It is stored as a JSON array column.
type ImageList []string

// Value implements driver.Valuer.
func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}

	out, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}

	return string(out), nil
}

// Scan implements sql.Scanner.
func (l *ImageList) Scan(src any) error {
	var raw []byte

	switch v := src.(type) {
	case nil:
		*l = ImageList{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("unsupported image list type %T", src)
	}

	if len(raw) == 0 {
		*l = ImageList{}
		return nil
	}

	return json.Unmarshal(raw, (*[]string)(l))
}

// Product is a catalog entry shown in the storefront.
// Price is a display string, no arithmetic is done on it.
type Product struct {
	ID        string    `gorm:"primaryKey;size:36"  json:"id"        bson:"_id"`
	Name      string    `gorm:"size:255;not null"   json:"name"      bson:"name"`
	Desc      string    `gorm:"column:description;type:text" json:"desc"      bson:"desc"`
	Price     string    `gorm:"size:100"            json:"price"     bson:"price"`
	SKU       string    `gorm:"size:100;index"      json:"sku"       bson:"sku"`
	Stock     int       `gorm:"not null;default:0"  json:"stock"     bson:"stock"`
	Images    ImageList `gorm:"type:text"           json:"images"    bson:"images"`
	CreatedAt time.Time `gorm:"index"               json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// TableName specifies the database table name for the Product model.
func (Product) TableName() string {
	return "products"
}

// BeforeCreate assigns the id. Once set it is never changed.
func (p *Product) BeforeCreate(_ *gorm.DB) error {
	p.EnsureID()
	return nil
}

// EnsureID assigns a new id if the product has none.
func (p *Product) EnsureID() {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	if p.Images == nil {
		p.Images = ImageList{}
	}
}

// Thumbnail returns the first image reference or "" if there is none.
func (p *Product) Thumbnail() string {
	if len(p.Images) == 0 {
		return ""
	}

	return p.Images[0]
}
