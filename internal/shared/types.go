package shared

// shared types across the application
// 1st: auth claims carried by the bearer token of an HTTP request
// 2nd: viewer identity that every read/write operation is evaluated against

type AuthClaims struct {
	UserID string `json:"user_id"` // user identifier(UUID)
	Role   string `json:"role"`    // "user" or "admin"
}

// Viewer is the identity a request is evaluated against. The zero value is the anonymous viewer.
type Viewer struct {
	UserID string
	Role   string
}

// Anonymous reports whether the request carried no identity.
func (v Viewer) Anonymous() bool {
	return v.UserID == ""
}

func (v Viewer) IsAdmin() bool {
	return v.Role == "admin"
}

// Is reports whether the viewer is the given user. Anonymous viewers are nobody.
func (v Viewer) Is(userID string) bool {
	return !v.Anonymous() && v.UserID == userID
}
