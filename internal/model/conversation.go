package model

import "time"

// Conversation keys a buyer/seller thread to one listing. The composite
// unique index makes FindOrCreate safe against concurrent first contact.
type Conversation struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ListingID   uint64    `gorm:"column:listing_id;index:idx_listing_buyer_seller,unique" json:"listingId"`
	BuyerUID    string    `gorm:"column:buyer_uid;size:128;index:idx_listing_buyer_seller,unique" json:"buyerUid"`
	SellerUID   string    `gorm:"column:seller_uid;size:128;index:idx_listing_buyer_seller,unique;index" json:"sellerUid"`
	LastMessage string    `gorm:"column:last_message;size:512" json:"lastMessage"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Conversation) TableName() string {
	return "conversations"
}
