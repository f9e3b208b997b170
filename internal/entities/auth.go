package entities

type RegisterRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Phone       string `json:"phone"`
	AccountType string `json:"account_type"` // CLIENT or PROVIDER

	// Provider profile, optional.
	BusinessName     string  `json:"business_name,omitempty"`
	ServiceAreaLat   float64 `json:"service_area_lat,omitempty"`
	ServiceAreaLng   float64 `json:"service_area_lng,omitempty"`
	ServiceAreaMiles float64 `json:"service_area_miles,omitempty"`
	BufferMinutes    int     `json:"buffer_minutes,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string `json:"token"`
}
