// Package models contains database model definitions.
package models

import "time"

// Setting is one piece of editable site content keyed by its type.
// Only one row exists per type.
type Setting struct {
	ID        uint64    `gorm:"primaryKey"                                  json:"-"       bson:"-"`
	Type      string    `gorm:"column:setting_type;unique;size:50;not null" json:"type"    bson:"_id"`
	Content   string    `gorm:"type:text"                                   json:"content" bson:"content"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// TableName specifies the database table name for the Setting model.
func (Setting) TableName() string {
	return "settings"
}
