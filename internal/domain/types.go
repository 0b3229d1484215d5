package domain

type PairingCode string

type MessageID string

// ConnectionStatus reflects whether the change subscription for the
// paired session is currently live.
type ConnectionStatus int

const (
	StatusDisconnected ConnectionStatus = iota
	StatusConnected
)

func (s ConnectionStatus) String() string {
	if s == StatusConnected {
		return "connected"
	}
	return "disconnected"
}

// SubscriptionStatus is the raw lifecycle signal reported by a store's
// change-subscription channel.
type SubscriptionStatus string

const (
	SubscriptionSubscribed   SubscriptionStatus = "subscribed"
	SubscriptionClosed       SubscriptionStatus = "closed"
	SubscriptionChannelError SubscriptionStatus = "channel_error"
)
