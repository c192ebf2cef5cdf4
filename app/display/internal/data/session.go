package data

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"

	"github.com/kedah-infodemic/firewatch/app/display/internal/domain"
	"github.com/kedah-infodemic/firewatch/app/display/internal/repo"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/model"
)

type sessionRepo struct {
	data *Data
	log  *log.Helper
}

func NewSessionRepo(data *Data, logger log.Logger) repo.SessionRepo {
	return &sessionRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *sessionRepo) Create(ctx context.Context) (string, *model.Run, error) {
	id := uuid.NewString()
	run := model.NewRun()

	r.data.mu.Lock()
	r.data.sessions[id] = &session{run: run, lastSeen: r.data.now()}
	r.data.mu.Unlock()

	r.log.WithContext(ctx).Debugf("session created: %s", id)
	return id, run, nil
}

func (r *sessionRepo) Get(ctx context.Context, id string) (*model.Run, error) {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()

	s, ok := r.data.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	s.lastSeen = r.data.now()
	return s.run, nil
}

func (r *sessionRepo) Delete(ctx context.Context, id string) error {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()

	if _, ok := r.data.sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(r.data.sessions, id)
	return nil
}
