package events

import "testing"

func TestPublishReachesAllSubscribers(t *testing.T) {
	bus := NewBus()

	var first, second int
	bus.Subscribe(TopicPatientsChanged, func(Topic) { first++ })
	bus.Subscribe(TopicPatientsChanged, func(Topic) { second++ })

	bus.Publish(TopicPatientsChanged)
	bus.Publish(TopicPatientsChanged)

	if first != 2 || second != 2 {
		t.Fatalf("handlers saw %d/%d publishes, want 2/2", first, second)
	}
}

func TestPublishWithoutSubscribersIsNoOp(t *testing.T) {
	bus := NewBus()
	// Must not panic.
	bus.Publish(TopicAppointmentsChanged)
}

func TestTopicsAreIndependent(t *testing.T) {
	bus := NewBus()

	var patients, appointments int
	bus.Subscribe(TopicPatientsChanged, func(Topic) { patients++ })
	bus.Subscribe(TopicAppointmentsChanged, func(Topic) { appointments++ })

	bus.Publish(TopicPatientsChanged)

	if patients != 1 || appointments != 0 {
		t.Fatalf("patients=%d appointments=%d, want 1/0", patients, appointments)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewBus()

	var kept, removed int
	bus.Subscribe(TopicPatientsChanged, func(Topic) { kept++ })
	unsubscribe := bus.Subscribe(TopicPatientsChanged, func(Topic) { removed++ })

	bus.Publish(TopicPatientsChanged)
	unsubscribe()
	bus.Publish(TopicPatientsChanged)

	if kept != 2 {
		t.Fatalf("kept handler saw %d publishes, want 2", kept)
	}
	if removed != 1 {
		t.Fatalf("removed handler saw %d publishes, want 1", removed)
	}
	if n := bus.SubscriberCount(TopicPatientsChanged); n != 1 {
		t.Fatalf("SubscriberCount = %d, want 1", n)
	}

	// Unsubscribing twice must be harmless.
	unsubscribe()
}
