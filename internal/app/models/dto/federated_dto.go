package dto

// GoogleLoginRequest is the payload posted by the browser after a client-side
// Google sign-in. The ID token, when present, is decoded but NOT
// cryptographically verified server-side; see the federated service.
type GoogleLoginRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
	UID         string `json:"uid"`
	IDToken     string `json:"idToken"`
}

// FederatedLoginResponse is returned by the google-login endpoint.
type FederatedLoginResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	RedirectURL string `json:"redirectUrl,omitempty"`
}

// FirebaseConfigResponse exposes the public identity-provider client
// configuration. The API key is public by design; no private keys belong here.
type FirebaseConfigResponse struct {
	APIKey            string `json:"apiKey"`
	AuthDomain        string `json:"authDomain"`
	ProjectID         string `json:"projectId"`
	StorageBucket     string `json:"storageBucket"`
	MessagingSenderID string `json:"messagingSenderId"`
	AppID             string `json:"appId"`
}
