package config

// Environment holds the cookie settings derived from the cookie domain.
type Environment struct {
	IsDevelopment bool
	Domain        string
	CookieSecure  bool
}

// NewEnvironment treats an empty domain as local development.
func NewEnvironment(domain string) Environment {
	isDev := domain == ""
	if isDev {
		domain = "localhost"
	}

	return Environment{
		IsDevelopment: isDev,
		Domain:        domain,
		CookieSecure:  !isDev,
	}
}
