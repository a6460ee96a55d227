package session

// Persisted keys. They match what the storefront writes so an admin who is
// already logged in there stays logged in here.
const (
	KeyUser        = "MondedesParfum_user"
	KeyUserID      = "MondedesParfum_user_id"
	KeyToken       = "MondedesParfum_token"
	KeyLoginStatus = "MondedesParfum_login_status"
)

var allKeys = []string{KeyUser, KeyUserID, KeyToken, KeyLoginStatus}
