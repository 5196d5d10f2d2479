package response

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type SuccessResponse struct {
	Data interface{} `json:"data"`
}

type TokenResponse struct {
	Token     string `json:"token"`
	Username  string `json:"username"`
	IsAdmin   bool   `json:"is_admin"`
	ExpiresIn int64  `json:"expires_in"`
}
