package model

import "time"

type Listing struct {
	ID              uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	SellerUID       string    `gorm:"column:seller_uid;size:128;not null;index" json:"sellerUid"`
	Title           string    `gorm:"size:120;not null" json:"title"`
	Description     string    `gorm:"type:text;not null" json:"description"`
	Price           uint      `gorm:"not null" json:"price"`
	CategoryID      uint64    `gorm:"column:category_id;not null;index" json:"categoryId"`
	IsSold          bool      `gorm:"column:is_sold;not null;default:false;index" json:"isSold"`
	LocationLat     *float64  `gorm:"column:location_lat" json:"locationLat,omitempty"`
	LocationLng     *float64  `gorm:"column:location_lng" json:"locationLng,omitempty"`
	LocationAddress *string   `gorm:"column:location_address;size:255" json:"locationAddress,omitempty"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Listing) TableName() string {
	return "listings"
}
