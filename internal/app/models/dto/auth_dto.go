package dto

// LoginRequest is the operator login payload
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"admin"`
	Password string `json:"password" binding:"required" example:"secret"`
}

// LoginResponse carries the issued access token
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int    `json:"expiresIn" example:"28800"`
	Username    string `json:"username" example:"admin"`
	RoleType    string `json:"roleType" example:"ADMIN"`
}
