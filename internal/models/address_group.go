package models

import "time"

// AddressGroup links one address to one group. Rows are replaced wholesale on
// every reconciliation and never updated in place, so there is no UpdatedAt.
// The composite unique index keeps the one-row-per-pair invariant.
type AddressGroup struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	AddressID uint      `json:"address_id" gorm:"not null;index;uniqueIndex:idx_address_group"`
	GroupID   uint      `json:"group_id" gorm:"not null;index;uniqueIndex:idx_address_group"`
	AddedByID uint      `json:"added_by_id" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`

	Address Address `json:"-" gorm:"foreignKey:AddressID"`
	Group   Group   `json:"-" gorm:"foreignKey:GroupID"`
	AddedBy User    `json:"-" gorm:"foreignKey:AddedByID"`
}

func (AddressGroup) TableName() string {
	return "address_groups"
}
