package constant

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"

	AccessTokenCookiePath  = "/"
	RefreshTokenCookiePath = "/api/auth"
)

// Keys under which the authorization gate stores the caller in c.Locals.
const (
	LocalsUserID = "userID"
	LocalsRole   = "role"
)

const (
	OtpDigits = 6

	// DeletedSuffixFormat is appended to unique columns on soft delete.
	DeletedSuffixFormat = "_deleted_%d"
)

const (
	SubjectOtpIssued     = "auth.login.otp_issued"
	SubjectLoginSuccess  = "auth.login.succeeded"
	SubjectAccountLocked = "auth.account.locked"
	SubjectLogout        = "auth.logout"
)
