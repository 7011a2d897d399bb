package domain

// BuildIdempotencyKey scopes a client supplied key to one account and one
// kind of mutation: "<country_id>:<kind>:<key>".
func BuildIdempotencyKey(countryID string, kind TransactionType, key string) string {
	return countryID + ":" + string(kind) + ":" + key
}
