package models

// Profile is a storefront user profile
type Profile struct {
	BaseModel

	Name      string `json:"name" gorm:"not null;size:255"`
	Email     string `json:"email" gorm:"not null;size:255;uniqueIndex"`
	Initials  string `json:"initials" gorm:"size:8"`
	AvatarURL string `json:"avatar_url" gorm:"size:255"`
	Phone     string `json:"phone" gorm:"size:20;index"`
}

// TableName specifies the table name
func (Profile) TableName() string {
	return "profiles"
}
