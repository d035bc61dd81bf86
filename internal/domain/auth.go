package domain

// SubjectType differentiates agent tokens from the static superadmin
// credential.
type SubjectType string

const (
	SubjectTypeAgent      SubjectType = "AGENT"
	SubjectTypeSuperadmin SubjectType = "SUPERADMIN"
)
