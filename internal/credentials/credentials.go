// Package credentials holds the opaque authentication material a
// request builder consumes (spec §3 "Credentials"). Secret fields are
// stored as byte slices, not strings, so they can actually be zeroed
// once the request bytes are produced (spec §5 "Shared resources",
// §9 "Credentials handling").
package credentials

// Credentials is owned exclusively by the HTTP driver for the
// duration of one request build, then wiped (spec §3 "Ownership").
type Credentials struct {
	ProfileID     string
	TransactionID string
	Cookie        []byte
	AccessToken   []byte
}

// Wipe best-effort zeroes the secret fields. Go cannot guarantee the
// compiler won't have produced copies elsewhere, but this closes the
// obvious window described in spec §5.
func (c *Credentials) Wipe() {
	zero(c.Cookie)
	zero(c.AccessToken)
	c.Cookie = nil
	c.AccessToken = nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Missing reports the names of required fields that are empty,
// matching spec §4.1's BuilderInputMissing failure.
func (c Credentials) Missing(required ...string) []string {
	var missing []string
	for _, name := range required {
		switch name {
		case "profile_id":
			if c.ProfileID == "" {
				missing = append(missing, name)
			}
		case "transaction_id":
			if c.TransactionID == "" {
				missing = append(missing, name)
			}
		case "cookie":
			if len(c.Cookie) == 0 {
				missing = append(missing, name)
			}
		case "access_token":
			if len(c.AccessToken) == 0 {
				missing = append(missing, name)
			}
		}
	}
	return missing
}
