package dto

// SignupRequest entrada para registrar un fabricante. No autentica automáticamente.
type SignupRequest struct {
	CompanyName string `json:"companyName" validate:"required,min=2,max=200"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	Location    string `json:"location" validate:"required,min=2,max=200"`
}

// SigninRequest entrada para iniciar sesión.
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse salida del sign-in: token + perfil de la empresa.
type TokenResponse struct {
	Token       string `json:"token"`
	ID          string `json:"id"`
	Email       string `json:"email"`
	CompanyName string `json:"companyName"`
	Location    string `json:"location"`
	Message     string `json:"message,omitempty"`
}

// Profile devuelve el perfil contenido en la respuesta de sign-in.
func (t TokenResponse) Profile() ManufacturerProfile {
	return ManufacturerProfile{ID: t.ID, Email: t.Email, CompanyName: t.CompanyName, Location: t.Location}
}

// ManufacturerProfile perfil público de la empresa autenticada (sin password).
type ManufacturerProfile struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	CompanyName string `json:"companyName"`
	Location    string `json:"location"`
}
