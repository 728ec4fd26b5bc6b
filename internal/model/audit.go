package model

import "time"

const (
	AuditActionIngest    = "ingest"
	AuditActionVectorize = "vectorize"
	AuditActionDelete    = "delete"
)

// AuditRecord captures one pipeline mutation (ingest, vectorize, delete)
// for the persisted audit trail. Published to RabbitMQ and written to
// MySQL by the audit worker.
type AuditRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"size:512;index" json:"key"`
	Title     string    `gorm:"size:512" json:"title"`
	Action    string    `gorm:"size:32;not null;index" json:"action"`
	Detail    string    `gorm:"type:text" json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}
