package models

// LoginResponse holds the reply of the identity provider password sign-in.
type LoginResponse struct {
	IDToken      string `json:"idToken" yaml:"idToken"`
	Email        string `json:"email" yaml:"email"`
	RefreshToken string `json:"refreshToken" yaml:"refreshToken"`
	ExpiresIn    string `json:"expiresIn" yaml:"expiresIn"`
	LocalID      string `json:"localId" yaml:"localId"`
}

// ServiceAccount is the delegated service account handed out by the backend.
type ServiceAccount struct {
	Type         string `json:"type,omitempty" yaml:"type,omitempty"`
	ProjectID    string `json:"project_id,omitempty" yaml:"project_id,omitempty"`
	PrivateKeyID string `json:"private_key_id,omitempty" yaml:"private_key_id,omitempty"`
	PrivateKey   string `json:"private_key" yaml:"private_key"`
	ClientEmail  string `json:"client_email" yaml:"client_email"`
	ClientID     string `json:"client_id,omitempty" yaml:"client_id,omitempty"`
	TokenURI     string `json:"token_uri,omitempty" yaml:"token_uri,omitempty"`
}

// ServiceAccountResponse is the structure to parse the backend service account reply.
type ServiceAccountResponse struct {
	ServiceAccount *ServiceAccount `json:"serviceAccount"`
}

// AccessToken holds the token endpoint reply of the jwt-bearer grant.
type AccessToken struct {
	AccessToken string `json:"access_token" yaml:"access_token"`
	TokenType   string `json:"token_type" yaml:"token_type"`
	ExpiresIn   int64  `json:"expires_in" yaml:"expires_in"`
}
