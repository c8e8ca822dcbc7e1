package model

import "time"

// Category names are bilingual: Name is English, NameMK is Macedonian.
type Category struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	NameMK    string    `gorm:"column:name_mk;size:120;not null" json:"nameMk"`
	Slug      string    `gorm:"size:120;not null;uniqueIndex:uk_categories_slug" json:"slug"`
	ParentID  *uint64   `gorm:"column:parent_id;index" json:"parentId,omitempty"`
	Icon      *string   `gorm:"size:64" json:"icon,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Category) TableName() string {
	return "categories"
}
