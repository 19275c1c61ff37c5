package auth

type ClaimsData struct {
	Issuer    string
	StaffID   string
	Email     string
	Role      string
	SchoolID  string
	ExpiresAt int64
	IssuedAt  int64
}
