package request_models

// UnsubscribeRequest toggles the caller's opt-out row for a collective.
// Exactly one of Type (activity type) or Channel (mailing channel) is set.
type UnsubscribeRequest struct {
	CollectiveSlug string `json:"collective_slug" binding:"required"`
	Type           string `json:"type,omitempty"`
	Channel        string `json:"channel,omitempty"`
}
