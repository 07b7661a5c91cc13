package main

import "time"

// StatusEvent is emitted once per refresh cycle after the status check.
type StatusEvent struct {
	Server ServerConfig
	Status StatusResult
	Time   time.Time
}

// StatusSubscriber receives every status event produced by the Refresher.
type StatusSubscriber interface {
	OnStatus(event StatusEvent)
}
