package mqtt

import (
	"strings"
	"sync"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"
)

// Handler is the callback when a message is received.
type Handler func(topic string, payload []byte)

// ConnectHandler is to handle connect/disconnect events.
type ConnectHandler func(*Queue)

// Queue wraps MQTT client. Topics are relative to TopicPrefix and
// subscriptions are restored on reconnect.
type Queue struct {
	Client       paho.Client
	TopicPrefix  string
	QoS          byte
	OnConnect    ConnectHandler
	OnDisconnect ConnectHandler

	subs subTable
}

// Subscription is a handler registered on a topic filter.
type Subscription struct {
	// Token is set on the first subscription of a filter.
	Token paho.Token

	queue   *Queue
	filter  string
	handler Handler
}

// MatchTopic matches topic with a filter, + matches one level and a
// trailing # matches the parent and any levels below.
func MatchTopic(topic, filter string) bool {
	t, f := strings.Split(topic, "/"), strings.Split(filter, "/")
	for i, level := range f {
		if level == "#" {
			return i == len(f)-1
		}
		if i >= len(t) || (level != "+" && level != t[i]) {
			return false
		}
	}
	return len(t) == len(f)
}

func isWildcard(filter string) bool {
	return strings.ContainsAny(filter, "+#")
}

// subTable indexes subscriptions by topic filter.
type subTable struct {
	lock    sync.RWMutex
	filters map[string][]*Subscription
}

// add returns true for the first subscription of the filter.
func (t *subTable) add(s *Subscription) bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.filters == nil {
		t.filters = make(map[string][]*Subscription)
	}
	subs := t.filters[s.filter]
	t.filters[s.filter] = append(subs, s)
	return len(subs) == 0
}

// remove returns true when the last subscription of the filter is gone.
func (t *subTable) remove(s *Subscription) bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	subs := t.filters[s.filter]
	for n, sub := range subs {
		if sub == s {
			subs = append(subs[:n:n], subs[n+1:]...)
			break
		}
	}
	if len(subs) == 0 {
		delete(t.filters, s.filter)
		return true
	}
	t.filters[s.filter] = subs
	return false
}

func (t *subTable) list() []string {
	t.lock.RLock()
	defer t.lock.RUnlock()
	filters := make([]string, 0, len(t.filters))
	for filter := range t.filters {
		filters = append(filters, filter)
	}
	return filters
}

func (t *subTable) match(topic string) (handlers []Handler) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	for filter, subs := range t.filters {
		if filter != topic && !(isWildcard(filter) && MatchTopic(topic, filter)) {
			continue
		}
		for _, s := range subs {
			handlers = append(handlers, s.handler)
		}
	}
	return
}

// NewQueue creates Queue.
func NewQueue(options *paho.ClientOptions, topicPrefix string) *Queue {
	q := &Queue{TopicPrefix: topicPrefix}
	options.SetOnConnectHandler(q.OnConnectHandler)
	options.SetConnectionLostHandler(q.ConnectionLostHandler)
	q.Client = paho.NewClient(options)
	return q
}

// NewQueueFromURL creates Queue from broker URL.
func NewQueueFromURL(brokerURL string) (*Queue, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	return NewQueue(opts, topicPrefix), nil
}

// Connect connects the client.
func (q *Queue) Connect() paho.Token {
	return q.Client.Connect()
}

// Close implements io.Closer.
func (q *Queue) Close() error {
	q.Client.Disconnect(0)
	return nil
}

// Sub subscribes a topic filter.
func (q *Queue) Sub(filter string, handler Handler) *Subscription {
	s := &Subscription{queue: q, filter: filter, handler: handler}
	if q.subs.add(s) {
		glog.V(2).Infof("SUB %q", q.TopicPrefix+filter)
		s.Token = q.Client.Subscribe(q.TopicPrefix+filter, q.QoS, q.dispatch)
	}
	return s
}

// Pub publishes to a topic.
func (q *Queue) Pub(topic string, payload []byte) paho.Token {
	return q.PubWith(topic, payload, q.QoS, false)
}

// PubWith publishes with QoS and retain settings.
func (q *Queue) PubWith(topic string, payload []byte, qos byte, retain bool) paho.Token {
	return q.Client.Publish(q.TopicPrefix+topic, qos, retain, payload)
}

// Resubscribe subscribes all filters again.
func (q *Queue) Resubscribe() paho.Token {
	filters := make(map[string]byte)
	for _, filter := range q.subs.list() {
		glog.V(2).Infof("SUB %q", q.TopicPrefix+filter)
		filters[q.TopicPrefix+filter] = q.QoS
	}
	if len(filters) == 0 {
		return &paho.DummyToken{}
	}
	return q.Client.SubscribeMultiple(filters, q.dispatch)
}

// OnConnectHandler implements paho.OnConnectHandler.
func (q *Queue) OnConnectHandler(paho.Client) {
	glog.Info("connected")
	q.Resubscribe()
	if h := q.OnConnect; h != nil {
		h(q)
	}
}

// ConnectionLostHandler implements paho.ConnectionLostHandler.
func (q *Queue) ConnectionLostHandler(c paho.Client, err error) {
	glog.Warningf("connection lost: %v", err)
	if h := q.OnDisconnect; h != nil {
		h(q)
	}
}

func (q *Queue) dispatch(c paho.Client, msg paho.Message) {
	topic := msg.Topic()
	if !strings.HasPrefix(topic, q.TopicPrefix) {
		return
	}
	glog.V(2).Infof("RCV %q", topic)
	topic = topic[len(q.TopicPrefix):]
	payload := msg.Payload()
	for _, h := range q.subs.match(topic) {
		h(topic, payload)
	}
}

// Close removes the handler, the filter is unsubscribed with the last one.
func (s *Subscription) Close() error {
	if !s.queue.subs.remove(s) {
		return nil
	}
	glog.V(2).Infof("UNSUB %q", s.filter)
	token := s.queue.Client.Unsubscribe(s.queue.TopicPrefix + s.filter)
	token.Wait()
	return token.Error()
}
