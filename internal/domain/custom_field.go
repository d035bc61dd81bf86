package domain

import "time"

// CustomFieldType enumerates supported custom field value types.
type CustomFieldType string

const (
	CustomFieldTypeText   CustomFieldType = "TEXT"
	CustomFieldTypeNumber CustomFieldType = "NUMBER"
	CustomFieldTypeDate   CustomFieldType = "DATE"
	CustomFieldTypeList   CustomFieldType = "LIST"
)

// CustomField is an account-scoped contact attribute definition. Key is
// unique within the account.
type CustomField struct {
	ID        string
	AccountID string
	Key       string
	Label     string
	FieldType CustomFieldType
	CreatedAt time.Time
	UpdatedAt time.Time
}
