package service

// EventPublisher pushes entity change notifications to connected clients so
// open list views refresh without polling. Implementations must not block.
type EventPublisher interface {
	Publish(event string, data interface{})
}
