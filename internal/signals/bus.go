package signals

import "sync"

// Topic names a cross-component notification.
type Topic string

const (
	TopicFocusRequest        Topic = "focus-request"
	TopicHotkeyChanged       Topic = "hotkey-changed"
	TopicTagJump             Topic = "tag-jump"
	TopicTagClicked          Topic = "tag-clicked"
	TopicClearTagFilter      Topic = "clear-tag-filter"
	TopicToggleCheckbox      Topic = "toggle-checkbox"
	TopicToggleStrikethrough Topic = "toggle-strikethrough"
	TopicToggleSearch        Topic = "toggle-search"
	TopicShowSearch          Topic = "show-search"
	TopicDismissSearch       Topic = "dismiss-search"
)

// Event is a fire-and-forget broadcast. Name carries the optional identifier
// some topics need (a clicked tag, a focus target); most events leave it
// empty.
type Event struct {
	Topic Topic
	Name  string
}

// Bus fans events out to subscribers. Publish never blocks on a subscriber
// and never fails; a handler for a topic nobody subscribed to is simply a
// no-op broadcast.
type Bus struct {
	mu   sync.Mutex
	subs map[Topic][]func(Event)
}

func NewBus() *Bus {
	return &Bus{subs: make(map[Topic][]func(Event))}
}

// Subscribe registers fn for a topic. Handlers run synchronously on the
// publishing goroutine, in subscription order.
func (b *Bus) Subscribe(topic Topic, fn func(Event)) {
	if fn == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[topic] = append(b.subs[topic], fn)
}

// Publish broadcasts an event to the topic's subscribers.
func (b *Bus) Publish(topic Topic, name string) {
	b.mu.Lock()
	handlers := make([]func(Event), len(b.subs[topic]))
	copy(handlers, b.subs[topic])
	b.mu.Unlock()

	ev := Event{Topic: topic, Name: name}
	for _, fn := range handlers {
		fn(ev)
	}
}
