package sse

import "sync"

// Event 推送给订阅者的数据帧
type Event struct {
	Name string
	Data any
}

// Subscriber 单个 SSE 连接的接收端
type Subscriber struct {
	conversationID uint
	ch             chan Event
}

func (s *Subscriber) C() <-chan Event { return s.ch }

// Broker 进程级 conversation -> 订阅者集合
// Subscribe/Unsubscribe 显式配对，连接断开必须 Unsubscribe（见 handler 的 defer）
type Broker struct {
	mu     sync.Mutex
	subs   map[uint]map[*Subscriber]struct{}
	closed bool
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[uint]map[*Subscriber]struct{})}
}

func (b *Broker) Subscribe(conversationID uint) *Subscriber {
	sub := &Subscriber{
		conversationID: conversationID,
		ch:             make(chan Event, 8),
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(sub.ch)
		return sub
	}
	set, ok := b.subs[conversationID]
	if !ok {
		set = make(map[*Subscriber]struct{})
		b.subs[conversationID] = set
	}
	set[sub] = struct{}{}
	return sub
}

func (b *Broker) Unsubscribe(sub *Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	set, ok := b.subs[sub.conversationID]
	if !ok {
		return
	}
	if _, ok := set[sub]; !ok {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(b.subs, sub.conversationID)
	}
	close(sub.ch)
}

// Publish 非阻塞：慢订阅者丢事件，不拖住发布方
func (b *Broker) Publish(conversationID uint, ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs[conversationID] {
		select {
		case sub.ch <- ev:
		default:
		}
	}
}

func (b *Broker) SubscriberCount(conversationID uint) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[conversationID])
}

func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, set := range b.subs {
		for sub := range set {
			close(sub.ch)
		}
	}
	b.subs = make(map[uint]map[*Subscriber]struct{})
}
