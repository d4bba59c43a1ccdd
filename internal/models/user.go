package models

import (
	"github.com/lib/pq"
)

type User struct {
	BaseModel
	Name         string   `gorm:"size:100;not null" json:"name"`
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'candidate'" json:"role"`

	// Profile
	Phone      string         `gorm:"size:20" json:"phone,omitempty"`
	Location   string         `gorm:"size:100" json:"location,omitempty"`
	Bio        string         `gorm:"size:500" json:"bio,omitempty"`
	Skills     pq.StringArray `gorm:"type:text[]" json:"skills"`
	Experience string         `gorm:"type:text" json:"experience,omitempty"`
	Education  string         `gorm:"type:text" json:"education,omitempty"`
	AvatarURL  string         `json:"avatar_url,omitempty"`
	AvatarKey  string         `json:"-"`
}
