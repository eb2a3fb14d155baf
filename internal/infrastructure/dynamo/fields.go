package dynamo

// DynamoDB attribute names used in key maps and update expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldEmail        = "email"
	fieldUserID       = "user_id"
	fieldPasswordHash = "password_hash"
	fieldUpdatedAt    = "updated_at"
	fieldIdentity     = "identity"
	fieldPurpose      = "purpose"
	fieldCode         = "code"
	fieldTTL          = "ttl"
	fieldDetailID     = "detail_id"
)

const indexUserID = "user_id-index"
