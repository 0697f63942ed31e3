package model

// Person is a per-term identity snapshot of a faculty member — maps to people.
// Snapshots are produced upstream; this service never mutates them.
type Person struct {
	PersonID   int64  `gorm:"primaryKey"                json:"person_id"`
	TermCode   int    `gorm:"primaryKey"                json:"term_code"`
	FirstName  string `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName   string `gorm:"type:varchar(100);not null" json:"last_name"`
	EffortDept string `gorm:"type:varchar(50)"          json:"effort_dept,omitempty"`
}

// TableName sets the table name.
func (Person) TableName() string { return "people" }
