package model

import "time"

// UserProfile is created lazily on a user's first authenticated request.
// Username and display name are derived from the email local-part.
type UserProfile struct {
	UID         string    `gorm:"column:uid;primaryKey;size:128" json:"uid"`
	Username    string    `gorm:"size:64;not null;uniqueIndex:uk_user_profiles_username" json:"username"`
	DisplayName string    `gorm:"column:display_name;size:120;not null" json:"displayName"`
	AvatarURL   *string   `gorm:"column:avatar_url;size:512" json:"avatarUrl,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
