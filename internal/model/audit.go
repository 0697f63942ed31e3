package model

import "time"

// Audit actions emitted by the provisioner. Downstream log search filters on
// these values and on the changes text, so they are part of the contract.
const (
	AuditActionCreateCourse       = "CreateCourse"
	AuditActionRCourseAutoCreated = "RCourseAutoCreated"
)

// Audited table labels.
const (
	AuditTableCourses = "Courses"
	AuditTableRecords = "Records"
)

// SystemActor is recorded as changed_by when no user initiated the change.
const SystemActor = "SYSTEM"

// AuditEntry is one append-only audit trail row — maps to audit_entries.
// Entries are written and never read back by this service; Before/After hold
// JSON snapshots of the row state around the change.
type AuditEntry struct {
	ID        int64     `gorm:"primaryKey"                 json:"id"`
	Table     string    `gorm:"column:table_name;type:varchar(50);not null" json:"table_name"`
	Action    string    `gorm:"type:varchar(50);not null"  json:"action"`
	TermCode  int       `gorm:"not null"                   json:"term_code"`
	ChangedBy string    `gorm:"type:varchar(50);not null"  json:"changed_by"`
	Changes   string    `gorm:"type:varchar(500);not null" json:"changes"`
	Before    *string   `gorm:"type:text"                  json:"before,omitempty"`
	After     *string   `gorm:"type:text"                  json:"after,omitempty"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the table name.
func (AuditEntry) TableName() string { return "audit_entries" }
