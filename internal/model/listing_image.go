package model

import "time"

// ListingImage belongs to a listing's ordered image set. Exactly one image
// per listing carries IsDefault; the service layer normalizes the flag.
type ListingImage struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ListingID  uint64    `gorm:"column:listing_id;not null;index:idx_listing_images_listing_id" json:"listingId"`
	ImageURL   string    `gorm:"column:image_url;size:512;not null" json:"imageUrl"`
	IsDefault  bool      `gorm:"column:is_default;not null;default:false" json:"isDefault"`
	OrderIndex int       `gorm:"column:order_index;not null;default:0" json:"orderIndex"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (ListingImage) TableName() string {
	return "listing_images"
}
