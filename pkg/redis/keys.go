package redis

import "strings"

// DefaultKeyspace is used when no key prefix is configured.
const DefaultKeyspace Keyspace = "fusion"

// Keyspace prefixes every key the API writes so several deployments can share
// one Redis database.
type Keyspace string

// RateLimit returns the counter key for a rate limit scope.
func (k Keyspace) RateLimit(scope string) string {
	return k.join("rate_limit", scope)
}

// Revoked returns the denylist key for a token id.
func (k Keyspace) Revoked(jti string) string {
	return k.join("revoked", jti)
}

func (k Keyspace) join(parts ...string) string {
	root := strings.TrimSpace(string(k))
	if root == "" {
		root = string(DefaultKeyspace)
	}
	var b strings.Builder
	b.WriteString(root)
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			b.WriteByte(':')
			b.WriteString(part)
		}
	}
	return b.String()
}
