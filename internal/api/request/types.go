package request

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name,omitempty"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateInvitationRequest is the request body for inviting a player
type CreateInvitationRequest struct {
	ToUsername string `json:"to_username"`
	Message    string `json:"message,omitempty"`
}

// MoveRequest is the request body for making a move.
// X and Y are pointers so a missing coordinate can be told apart from 0.
type MoveRequest struct {
	X       *int   `json:"x"`
	Y       *int   `json:"y"`
	Comment string `json:"comment,omitempty"`
}
