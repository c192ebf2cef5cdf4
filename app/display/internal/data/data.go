package data

import (
	"sync"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/kedah-infodemic/firewatch/app/display/internal/conf"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/model"
)

const defaultSessionTTL = 2 * time.Hour

// Data 进程内会话存储，不做持久化
type Data struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
}

type session struct {
	run      *model.Run
	lastSeen time.Time
}

func NewData(c *conf.Firewatch, logger log.Logger) (*Data, func(), error) {
	ttl := defaultSessionTTL
	if c != nil && c.Session != nil && c.Session.Ttl != "" {
		d, err := time.ParseDuration(c.Session.Ttl)
		if err != nil {
			return nil, nil, err
		}
		ttl = d
	}

	d := &Data{
		sessions: make(map[string]*session),
		ttl:      ttl,
		now:      time.Now,
	}

	stop := make(chan struct{})
	go d.janitor(stop, ttl/4, log.NewHelper(logger))

	cleanup := func() {
		log.NewHelper(logger).Info("closing the session store")
		close(stop)
	}
	return d, cleanup, nil
}

// janitor 定期回收空闲会话
func (d *Data) janitor(stop <-chan struct{}, every time.Duration, h *log.Helper) {
	if every <= 0 {
		every = time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if n := d.evictIdle(); n > 0 {
				h.Infof("evicted %d idle sessions", n)
			}
		}
	}
}

// evictIdle 删除超过 ttl 未访问且没有运行中任务的会话
func (d *Data) evictIdle() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	cutoff := d.now().Add(-d.ttl)
	n := 0
	for id, s := range d.sessions {
		if s.lastSeen.Before(cutoff) && s.run.Acquire() {
			s.run.Release()
			delete(d.sessions, id)
			n++
		}
	}
	return n
}
