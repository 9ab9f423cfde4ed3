package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User types. The role carried in access tokens is the user type.
const (
	UserTypeManager    = "Manager"
	UserTypeStaff      = "Staff"
	UserTypeAccountant = "Accountant"
)

// User is a claimant or reviewer. Site names the Loc whose rates apply to
// the user's invoices.
type User struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Email       string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password    string         `gorm:"type:varchar(255);not null" json:"-"` // bcrypt hash
	PhoneNumber string         `gorm:"type:varchar(20)" json:"phone_number"`
	DateOfBirth *time.Time     `gorm:"type:date" json:"date_of_birth"`
	Site        string         `gorm:"type:varchar(255);index" json:"site"`
	UserType    string         `gorm:"type:varchar(20);not null" json:"user_type"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"` // GORM soft delete
}

// ValidUserType reports whether t is one of the known user types.
func ValidUserType(t string) bool {
	return t == UserTypeManager || t == UserTypeStaff || t == UserTypeAccountant
}
