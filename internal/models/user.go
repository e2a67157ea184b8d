package models

// User is the public member record embedded in rooms and messages.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	ProfileImage string `json:"profile_image,omitempty"`
}

// Profile is the viewer's own account as served by GET /profile/.
type Profile struct {
	Email        string `json:"email"`
	Username     string `json:"username"`
	Bio          string `json:"bio"`
	ProfileImage string `json:"profile_image,omitempty"`
}
