package auth

type ClaimsData struct {
	Issuer    string
	BankerID  string
	Name      string
	Email     string
	ExpiresAt int64
	IssuedAt  int64
	UserAgent string
	DeviceID  string
}
