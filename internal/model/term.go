package model

import "time"

// Term status lifecycle. Transitions are monotonic and owned by the external
// term-management workflow; this service reads status and never walks it back.
const (
	TermStatusCreated   = "Created"
	TermStatusHarvested = "Harvested"
	TermStatusOpened    = "Opened"
	TermStatusClosed    = "Closed"
	TermStatusVerified  = "Verified"
)

// Term is an academic period — maps to terms.
// TermCode is six digits, YYYYNN, where NN encodes the calendar period type.
type Term struct {
	TermCode   int        `gorm:"primaryKey"                                 json:"term_code"`
	Status     string     `gorm:"type:varchar(20);not null;default:'Created'" json:"status"`
	OpenedDate *time.Time `gorm:"type:timestamptz"                           json:"opened_date,omitempty"`
	BaseModel
}

// TableName sets the table name.
func (Term) TableName() string { return "terms" }
