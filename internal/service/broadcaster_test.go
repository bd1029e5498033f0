package service_test

import (
	"github.com/stretchr/testify/mock"

	"github.com/vinay-ml/RetroSphere/internal/dto"
)

// mockBroadcaster is a testify mock of service.Broadcaster shared by the
// service tests in this package.
type mockBroadcaster struct {
	mock.Mock
}

func (m *mockBroadcaster) Publish(event dto.Event) {
	m.Called(event)
}

// anyEventNamed matches a published event by topic name.
func anyEventNamed(name string) interface{} {
	return mock.MatchedBy(func(event dto.Event) bool {
		return event.Name == name
	})
}
