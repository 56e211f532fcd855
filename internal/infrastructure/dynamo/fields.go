package dynamo

// DynamoDB attribute names used in key and update expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldAccountID    = "account_id"
	fieldEmail        = "email"
	fieldPurpose      = "purpose"
	fieldVerified     = "verified"
	fieldPasswordHash = "password_hash"
	fieldUpdatedAt    = "updated_at"
	fieldCode         = "code"
	fieldAttempts     = "attempts"
)
