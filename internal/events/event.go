package events

// Event types dispatched through the registry.
const (
	TypeSanction     = "sanction.event"
	TypeOrderCreated = "order.created"
	TypeTrustProtect = "review.trust_protect"
)

// Event is an immutable notification of a domain occurrence. Type selects
// which handlers react; Payload is an open mapping interpreted per type, so
// handlers must probe it defensively. Metadata carries auxiliary context and
// never influences dispatch.
type Event struct {
	Type     string         `json:"type"`
	Payload  map[string]any `json:"payload"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewSanctionEvent signals that a seller entered or left a sanctioned area.
func NewSanctionEvent(sellerID string, restricted bool) Event {
	return Event{
		Type: TypeSanction,
		Payload: map[string]any{
			"seller_id":     sellerID,
			"is_restricted": restricted,
		},
	}
}

// NewOrderCreatedEvent carries a freeform reason shown to the recipient.
func NewOrderCreatedEvent(recipientID, reason string) Event {
	return Event{
		Type: TypeOrderCreated,
		Payload: map[string]any{
			"recipient_id": recipientID,
			"reason":       reason,
		},
	}
}

// NewTrustProtectEvent signals that an automated adjustment forced a review's
// rating down to the lowest tier.
func NewTrustProtectEvent(reviewGiverID, reviewID string) Event {
	return Event{
		Type: TypeTrustProtect,
		Payload: map[string]any{
			"review_giver_id": reviewGiverID,
			"review_id":       reviewID,
		},
	}
}

// stringField returns the payload value for key if it is a string.
func stringField(payload map[string]any, key string) string {
	if payload == nil {
		return ""
	}
	s, _ := payload[key].(string)
	return s
}

// boolField returns the payload value for key if it is a bool.
func boolField(payload map[string]any, key string) bool {
	if payload == nil {
		return false
	}
	b, _ := payload[key].(bool)
	return b
}
