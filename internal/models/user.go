package models

import (
	"encoding/json"
	"strconv"
	"time"
)

// User represents the users table
// DB: users
type User struct {
	BaseModel
	Name      string     `gorm:"column:name;size:100;not null" json:"name"`
	Email     *string    `gorm:"column:email;size:255;uniqueIndex:users_email_key" json:"email,omitempty"`
	Password  string     `gorm:"column:password;size:255;not null" json:"-"`
	IsGuest   bool       `gorm:"column:is_guest;not null;default:false" json:"isGuest"`
	LastLogin *time.Time `gorm:"column:last_login" json:"lastLogin,omitempty"`

	// Relations
	SavedBusinesses []SavedBusiness `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// MarshalJSON exposes the numeric primary key as a string id, matching the client's User type
func (u User) MarshalJSON() ([]byte, error) {
	type alias User
	return json.Marshal(struct {
		ID string `json:"id"`
		alias
	}{
		ID:    strconv.FormatUint(uint64(u.ID), 10),
		alias: alias(u),
	})
}

// SavedBusiness is a business a user bookmarked. The card is stored as a JSON
// document so the client gets back exactly what it saved.
// DB: saved_businesses
type SavedBusiness struct {
	BaseModel
	UserID     uint      `gorm:"column:user_id;not null;uniqueIndex:saved_businesses_user_business_key,priority:1" json:"-"`
	BusinessID string    `gorm:"column:business_id;size:255;not null;uniqueIndex:saved_businesses_user_business_key,priority:2" json:"-"`
	Payload    string    `gorm:"column:payload;type:text;not null" json:"-"`
	SavedAt    time.Time `gorm:"column:saved_at;not null" json:"savedAt"`
}

func (SavedBusiness) TableName() string {
	return "saved_businesses"
}

// SavedBusinessView is a saved card as returned to the client
type SavedBusinessView struct {
	Business
	SavedAt time.Time `json:"savedAt"`
}
