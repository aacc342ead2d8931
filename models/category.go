package models

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID        string          `json:"id" gorm:"primaryKey;size:36"`
	OwnerID   string          `json:"user_id" gorm:"size:36;not null;uniqueIndex:idx_categories_owner_name_type,priority:1"`
	Name      string          `json:"name" gorm:"size:100;not null;uniqueIndex:idx_categories_owner_name_type,priority:2"`
	Kind      TransactionKind `json:"type" gorm:"column:type;size:20;not null;uniqueIndex:idx_categories_owner_name_type,priority:3"`
	Color     string          `json:"color" gorm:"size:7"`
	Icon      string          `json:"icon" gorm:"size:50"`
	IsDefault bool            `json:"is_default"`
	CreatedAt time.Time       `json:"created_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) (err error) {
	newID(&c.ID)
	return
}
