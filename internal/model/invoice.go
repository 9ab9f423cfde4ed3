package model

import (
	"time"

	"github.com/google/uuid"
)

// Invoice status values. Stored lowercase only.
const (
	InvoicePending  = "pending"
	InvoiceApproved = "approved"
	InvoiceRejected = "rejected"
)

// Invoice is a monthly claim submitted by a user.
//
// Quantities (meetings, hours, days) are stored in hundredths and money
// fields in minor currency units. Amount is always computed server-side
// from the quantities and the owner's Loc rates.
type Invoice struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_invoices_user_month" json:"user_id"`
	User   *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Month  string    `gorm:"type:varchar(7);not null;index;uniqueIndex:idx_invoices_user_month" json:"month"` // period label, e.g. 2025-01

	Meetings      int64  `gorm:"not null;default:0" json:"meetings"`
	DayHrs        int64  `gorm:"column:day_hrs_amount;not null;default:0" json:"day_hrs_amount"`
	EveHrs        int64  `gorm:"column:eve_hrs_amount;not null;default:0" json:"eve_hrs_amount"`
	Admin         int64  `gorm:"not null;default:0" json:"admin"`
	MeetingOnline int64  `gorm:"not null;default:0" json:"meeting_online"`
	MeetingF2F    int64  `gorm:"column:meeting_f2f;not null;default:0" json:"meeting_f2f"`
	Days          int64  `gorm:"not null;default:0" json:"days"`
	Honorarium    int64  `gorm:"not null;default:0" json:"honorarium"`
	Others        int64  `gorm:"not null;default:0" json:"others"`
	Expenses      int64  `gorm:"not null;default:0" json:"expenses"` // non-taxable, excluded from Amount
	Amount        int64  `gorm:"not null;default:0" json:"amount"`
	Status        string `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ReceiptKey    string `gorm:"column:receipt_url;type:text" json:"receipt_url"`

	MeetingsDescription      string `gorm:"type:text" json:"meetings_description"`
	DaytimeDescription       string `gorm:"type:text" json:"daytime_description"`
	EveningDescription       string `gorm:"type:text" json:"evening_description"`
	AdminDescription         string `gorm:"type:text" json:"admin_description"`
	MeetingOnlineDescription string `gorm:"type:text" json:"meeting_online_description"`
	MeetingF2FDescription    string `gorm:"column:meeting_f2f_description;type:text" json:"meeting_f2f_description"`
	DaysDescription          string `gorm:"type:text" json:"days_description"`
	HonorariumDescription    string `gorm:"type:text" json:"honorarium_description"`
	OthersDescription        string `gorm:"type:text" json:"others_description"`
	ExpensesDescription      string `gorm:"type:text" json:"expenses_description"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
