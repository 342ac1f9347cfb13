package models

// Address is a single contact entry. Scalar fields are owned exclusively by
// OwnerID; admins only ever touch the group assignments.
type Address struct {
	BaseModel
	OwnerID       uint   `json:"owner_id" gorm:"not null;index"`
	FullName      string `json:"full_name" gorm:"type:varchar(255);not null"`
	FirstName     string `json:"first_name" gorm:"type:varchar(100)"`
	LastName      string `json:"last_name" gorm:"type:varchar(100)"`
	Nickname      string `json:"nickname" gorm:"type:varchar(100)"`
	Phone         string `json:"phone" gorm:"type:varchar(50)"`
	Email         string `json:"email" gorm:"type:varchar(255)"`
	Company       string `json:"company" gorm:"type:varchar(255)"`
	JobTitle      string `json:"job_title" gorm:"type:varchar(255)"`
	Department    string `json:"department" gorm:"type:varchar(255)"`
	Street        string `json:"street" gorm:"type:varchar(255)"`
	City          string `json:"city" gorm:"type:varchar(100)"`
	State         string `json:"state" gorm:"type:varchar(100)"`
	ZipCode       string `json:"zip_code" gorm:"type:varchar(20)"`
	Country       string `json:"country" gorm:"type:varchar(100)"`
	FacebookLink  string `json:"facebook_link" gorm:"type:text"`
	InstagramLink string `json:"instagram_link" gorm:"type:text"`
	LinkedinLink  string `json:"linkedin_link" gorm:"type:text"`

	Owner User `json:"-" gorm:"foreignKey:OwnerID;references:ID"`

	// Filled from the assignment join, never persisted.
	Groups        []GroupRef `json:"groups" gorm:"-"`
	OwnerUsername string     `json:"owner_username,omitempty" gorm:"-"`
}

// GroupRef is the aggregated view of one group membership on an address.
type GroupRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}
