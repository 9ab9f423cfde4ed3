package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateInvoice      = "CREATE_INVOICE"
	ActionUpdateInvoice      = "UPDATE_INVOICE"
	ActionDeleteInvoice      = "DELETE_INVOICE"
	ActionSetInvoiceStatus   = "SET_INVOICE_STATUS"
	ActionBulkInvoiceStatus  = "BULK_INVOICE_STATUS"
	ActionUpdatePeriodStatus = "UPDATE_PERIOD_STATUS"
	ActionCreateLoc          = "CREATE_LOC"
	ActionUpdateLoc          = "UPDATE_LOC"
	ActionDeleteLoc          = "DELETE_LOC"
)

// AuditLog tracks Who, What, and When for payroll changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // nil for scheduled jobs
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string     `gorm:"type:jsonb" json:"details"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
