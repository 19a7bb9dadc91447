package api

type InitRequest struct {
	PublicKey     string `json:"publicKey"`
	ApplicationID string `json:"applicationId"`
	Token         string `json:"token"`
}

type InitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type PublicKeyResponse struct {
	PublicKey string `json:"publicKey"`
}
