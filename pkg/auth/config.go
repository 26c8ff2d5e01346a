package auth

// Config configures the account service.
type Config struct {
	BaseURL    string `env:"APP_BASE_URL,required"` // prefix of the links in account emails
	BcryptCost int    `env:"AUTH_BCRYPT_COST" envDefault:"10"`
}
