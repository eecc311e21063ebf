package config

// GetAuthSkipperPaths returns a list of paths to skip admin authentication for.
// Terminal endpoints carry their own HMAC authentication and the GraphQL
// catalog read side is public.
func GetAuthSkipperPaths() []string {
	return []string{"/terminal/sales", "/terminal/sales/daily-log", "/graphql"}
}
