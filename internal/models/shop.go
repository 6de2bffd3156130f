package models

// Shop is a collaborative shop shared by several users
type Shop struct {
	BaseModel

	Name      string  `json:"name" gorm:"not null;size:255"`
	CreatedBy string  `json:"created_by" gorm:"size:64;index"`
	CartTotal float64 `json:"cart_total"`
	CartGoal  float64 `json:"cart_goal"`
}

// TableName specifies the table name
func (Shop) TableName() string {
	return "shops"
}

// Collaborator links a user to a collaborative shop
type Collaborator struct {
	BaseModel

	ShopID uint   `json:"shop_id" gorm:"not null;index"`
	UserID string `json:"user_id" gorm:"not null;size:64;index"`
	Status string `json:"status" gorm:"size:20;default:'pending'"` // pending or active
}

// TableName specifies the table name
func (Collaborator) TableName() string {
	return "collaborators"
}

// Invite records an emailed invitation to join a collaborative shop
type Invite struct {
	BaseModel

	ShopID    uint   `json:"shop_id" gorm:"not null;index"`
	Email     string `json:"email" gorm:"not null;size:255;index"`
	InvitedBy string `json:"invited_by" gorm:"size:64"`
	Status    string `json:"status" gorm:"size:20;default:'pending'"`
}

// TableName specifies the table name
func (Invite) TableName() string {
	return "invites"
}
