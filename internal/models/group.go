package models

// Group is a global, admin-managed label. Name collisions are checked at
// write time; the unique index is the backstop.
type Group struct {
	BaseModel
	Name        string  `json:"name" gorm:"type:varchar(150);uniqueIndex;not null"`
	Description *string `json:"description,omitempty" gorm:"type:text"`
	CreatedByID uint    `json:"created_by_id" gorm:"not null;index"`
	CreatedBy   User    `json:"-" gorm:"foreignKey:CreatedByID"`

	MemberCount       int64  `json:"member_count" gorm:"-"`
	CreatedByUsername string `json:"created_by_username,omitempty" gorm:"-"`
}
