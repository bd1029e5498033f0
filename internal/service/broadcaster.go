package service

import "github.com/vinay-ml/RetroSphere/internal/dto"

// Broadcaster fans an event out to every connected viewer. Publish is
// fire-and-forget: no acknowledgment, no replay for late joiners. Services
// call it only after the persisted write has fully succeeded, so viewers
// never see a partial mutation.
type Broadcaster interface {
	Publish(event dto.Event)
}
