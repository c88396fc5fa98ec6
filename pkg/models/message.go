package models

const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

// Message represents a message stored by the gateway
type Message struct {
	ID        string `json:"id"`
	Wamid     string `json:"wamid,omitempty"` // Provider message id
	Phone     string `json:"phone"`
	Direction string `json:"direction"` // inbound, outbound
	Type      string `json:"type"`      // text, image, video, etc.
	Status    string `json:"status"`    // sent, delivered, read, failed
	Content   string `json:"content,omitempty"`
	MediaURL  string `json:"media_url,omitempty"`
	MediaType string `json:"media_type,omitempty"`
	Caption   string `json:"caption,omitempty"`
	CreatedAt string `json:"created_at"`
}

func (m Message) Inbound() bool {
	return m.Direction == DirectionInbound
}

func (m Message) HasMedia() bool {
	return m.MediaURL != ""
}
