package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrokerPublishReachesSubscribers(t *testing.T) {
	b := NewBroker()
	s1 := b.Subscribe(1)
	s2 := b.Subscribe(1)
	other := b.Subscribe(2)

	b.Publish(1, Event{Name: "comment", Data: "hello"})

	for _, s := range []*Subscriber{s1, s2} {
		select {
		case ev := <-s.C():
			assert.Equal(t, "comment", ev.Name)
			assert.Equal(t, "hello", ev.Data)
		default:
			t.Fatal("expected event")
		}
	}
	select {
	case <-other.C():
		t.Fatal("subscriber of another conversation must not receive the event")
	default:
	}
}

func TestBrokerUnsubscribeRemovesAndCloses(t *testing.T) {
	b := NewBroker()
	s := b.Subscribe(7)
	require.Equal(t, 1, b.SubscriberCount(7))

	b.Unsubscribe(s)
	assert.Equal(t, 0, b.SubscriberCount(7))

	_, open := <-s.C()
	assert.False(t, open, "channel must be closed after unsubscribe")

	// 二次退订不 panic
	b.Unsubscribe(s)
}

func TestBrokerSlowSubscriberDropsEvents(t *testing.T) {
	b := NewBroker()
	s := b.Subscribe(3)

	// 缓冲 8，灌 20 条不能阻塞
	for i := 0; i < 20; i++ {
		b.Publish(3, Event{Name: "comment", Data: i})
	}

	n := 0
	for {
		select {
		case <-s.C():
			n++
			continue
		default:
		}
		break
	}
	assert.Equal(t, 8, n)
}

func TestBrokerClose(t *testing.T) {
	b := NewBroker()
	s := b.Subscribe(1)
	b.Close()

	_, open := <-s.C()
	assert.False(t, open)

	// Close 后订阅直接拿到已关闭的通道
	s2 := b.Subscribe(1)
	_, open = <-s2.C()
	assert.False(t, open)
	assert.Equal(t, 0, b.SubscriberCount(1))
}
