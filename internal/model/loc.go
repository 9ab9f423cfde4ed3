package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LocStatus enum constants
const (
	LocActive   = "active"
	LocInactive = "inactive"
)

// Loc is a location with its own rate table. Users are assigned to a Loc
// through their site name. Rates are per unit: meeting, daytime hour,
// evening hour, day, admin hour, online meeting and face-to-face meeting.
// An inactive Loc always carries an InactiveDate.
type Loc struct {
	ID                uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name              string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Address           string          `gorm:"type:text" json:"address"`
	MeetingRate       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"meeting_rate"`
	DayTimeRate       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"day_time_rate"`
	EveRate           decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"eve_rate"`
	DayRate           decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"day_rate"`
	AdminRate         decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"admin_rate"`
	OnlineMeetingRate decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"online_meeting_rate"`
	F2FMeetingRate    decimal.Decimal `gorm:"column:f2f_meeting_rate;type:decimal(10,2);not null;default:0" json:"f2f_meeting_rate"`
	Status            string          `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	InactiveDate      *time.Time      `gorm:"type:date" json:"inactive_date"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
