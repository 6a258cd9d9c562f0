package feed

import "safecity/backend/internal/models"

// Client is one dashboard connection subscribed to the report feed.
type Client interface {
	// GetClientID returns the identifier the manager registers the client under.
	GetClientID() string

	// GetSendChannel returns the channel the manager pushes events to.
	GetSendChannel() chan<- models.FeedEvent

	// Run starts the read and write pumps.
	Run()
	// Close shuts the send channel, which stops the write pump.
	Close()
}
