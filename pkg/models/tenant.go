package models

// Tenant represents a phone connection configured on the gateway
type Tenant struct {
	ID            string `json:"id"`
	Alias         string `json:"alias,omitempty"`
	Name          string `json:"name,omitempty"` // Older backends send name instead of alias
	WabaID        string `json:"waba_id"`
	PhoneNumberID string `json:"phone_number_id"`
	WebhookURL    string `json:"webhook_url,omitempty"`
	APIKey        string `json:"api_key"` // Generated by the gateway, read only
	IsActive      bool   `json:"is_active"`
	CreatedAt     string `json:"created_at"`
}

// DisplayName prefers the alias and falls back to the legacy name.
func (t Tenant) DisplayName() string {
	if t.Alias != "" {
		return t.Alias
	}
	return t.Name
}

// TenantInput is the create payload. Token is write-only.
type TenantInput struct {
	Alias         string `json:"alias"`
	WabaID        string `json:"waba_id"`
	PhoneNumberID string `json:"phone_number_id"`
	Token         string `json:"token"`
	WebhookURL    string `json:"webhook_url,omitempty"`
}

// TenantUpdate is the edit payload. A nil Token is left out of the
// request so the gateway keeps the stored credential.
type TenantUpdate struct {
	Alias         string  `json:"alias"`
	WabaID        string  `json:"waba_id"`
	PhoneNumberID string  `json:"phone_number_id"`
	WebhookURL    string  `json:"webhook_url"`
	IsActive      bool    `json:"is_active"`
	Token         *string `json:"token,omitempty"`
}
