package sqlxrepos

import (
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/trezcool/campweek/core"
	"github.com/trezcool/campweek/core/camp"
)

const listenerPingInterval = 90 * time.Second

// ChangeNotifier LISTENs on the catalog channel and calls every subscriber on each notification.
// A reconnect counts as a change since notifications may have been missed meanwhile.
type ChangeNotifier struct {
	listener *pq.Listener
	logger   core.Logger

	mu     sync.Mutex
	subs   map[int]func()
	nextID int

	done     chan struct{}
	stopOnce sync.Once
}

func NewChangeNotifier(dsn, channel string, minReconnect, maxReconnect time.Duration, logger core.Logger) (*ChangeNotifier, error) {
	n := &ChangeNotifier{
		logger: logger,
		subs:   make(map[int]func()),
		done:   make(chan struct{}),
	}
	n.listener = pq.NewListener(dsn, minReconnect, maxReconnect, n.reportEvent)
	if err := n.listener.Listen(channel); err != nil {
		_ = n.listener.Close()
		return nil, core.NewStoreError("listen "+channel, err)
	}

	go n.run()
	return n, nil
}

func (n *ChangeNotifier) reportEvent(ev pq.ListenerEventType, err error) {
	switch ev {
	case pq.ListenerEventDisconnected, pq.ListenerEventConnectionAttemptFailed:
		n.logger.Warn("camp change listener", ev, err)
	case pq.ListenerEventReconnected:
		n.logger.Info("camp change listener reconnected")
	}
}

func (n *ChangeNotifier) run() {
	for {
		select {
		case <-n.done:
			return
		case notif, ok := <-n.listener.Notify:
			if !ok {
				return
			}
			if notif != nil {
				n.logger.Debug("camp change", notif.Extra)
			}
			n.broadcast()
		case <-time.After(listenerPingInterval):
			go func() {
				if err := n.listener.Ping(); err != nil {
					n.logger.Warn("camp change listener ping", err)
				}
			}()
		}
	}
}

// broadcast never blocks the Notify channel: callbacks run on their own goroutines.
func (n *ChangeNotifier) broadcast() {
	n.mu.Lock()
	fns := make([]func(), 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		go fn()
	}
}

func (n *ChangeNotifier) Subscribe(onChange func()) camp.Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.nextID
	n.nextID++
	n.subs[id] = onChange
	return &subscription{stop: func() {
		n.mu.Lock()
		delete(n.subs, id)
		n.mu.Unlock()
	}}
}

// Close stops the listener; subscribers are not called anymore.
func (n *ChangeNotifier) Close() error {
	var err error
	n.stopOnce.Do(func() {
		close(n.done)
		n.mu.Lock()
		n.subs = make(map[int]func())
		n.mu.Unlock()
		err = n.listener.Close()
	})
	return err
}

type subscription struct {
	once sync.Once
	stop func()
}

func (s *subscription) Stop() {
	s.once.Do(s.stop)
}
