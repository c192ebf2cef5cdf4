package service

import (
	"context"
	stderrors "errors"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	pb "github.com/kedah-infodemic/firewatch/app/display/api"
	"github.com/kedah-infodemic/firewatch/app/display/internal/domain"
	"github.com/kedah-infodemic/firewatch/app/display/internal/usecase"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/engine"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/model"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/preview"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/provider"
)

const (
	reasonInvalidRequest   = "INVALID_REQUEST"
	reasonSessionNotFound  = "SESSION_NOT_FOUND"
	reasonRunInProgress    = "RUN_IN_PROGRESS"
	reasonLinkNotInSession = "LINK_NOT_IN_SESSION"
	reasonNoResults        = "NO_RESULTS"
	reasonUnsupported      = "UNSUPPORTED"
	reasonUpstream         = "UPSTREAM_FAILED"
)

type FirewatchService struct {
	uc  *usecase.RunUseCase
	log *log.Helper
}

func NewFirewatchService(uc *usecase.RunUseCase, logger log.Logger) *FirewatchService {
	return &FirewatchService{
		uc:  uc,
		log: log.NewHelper(logger),
	}
}

func (s *FirewatchService) Run(ctx context.Context, req *pb.RunReq) (*pb.SessionReply, error) {
	view, err := s.uc.Start(ctx, domain.RunInput{
		SessionID: req.SessionId,
		Keyword:   req.Keyword,
		Window:    req.TimeWindow,
		Sources:   req.Sources,
		Provider:  providerInput(req.Provider),
		Wait:      req.Wait,
	})
	if err != nil {
		return nil, s.mapError(err)
	}
	return sessionReply(view), nil
}

func (s *FirewatchService) Analyze(ctx context.Context, req *pb.AnalyzeReq) (*pb.SessionReply, error) {
	view, err := s.uc.Reanalyze(ctx, req.Id, providerInput(req.Provider), req.Wait)
	if err != nil {
		return nil, s.mapError(err)
	}
	return sessionReply(view), nil
}

func (s *FirewatchService) GetSession(ctx context.Context, req *pb.GetSessionReq) (*pb.SessionReply, error) {
	view, err := s.uc.Get(ctx, req.Id)
	if err != nil {
		return nil, s.mapError(err)
	}
	return sessionReply(view), nil
}

func (s *FirewatchService) DeleteSession(ctx context.Context, req *pb.DeleteSessionReq) (*pb.DeleteSessionReply, error) {
	if err := s.uc.Delete(ctx, req.Id); err != nil {
		return nil, s.mapError(err)
	}
	return &pb.DeleteSessionReply{}, nil
}

func (s *FirewatchService) GetFeed(ctx context.Context, req *pb.GetFeedReq) (*pb.GetFeedReply, error) {
	content, err := s.uc.Feed(ctx, req.Id, "/api/v1/sessions/"+req.Id)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &pb.GetFeedReply{Content: content}, nil
}

func (s *FirewatchService) ListProviders(ctx context.Context, req *pb.ListProvidersReq) (*pb.ListProvidersReply, error) {
	return &pb.ListProvidersReply{Providers: s.uc.Providers()}, nil
}

func (s *FirewatchService) ListModels(ctx context.Context, req *pb.ListModelsReq) (*pb.ListModelsReply, error) {
	models, err := s.uc.ListModels(ctx, req.Id, req.ApiKey)
	if err != nil {
		return nil, s.mapError(err)
	}
	if models == nil {
		models = []string{}
	}
	return &pb.ListModelsReply{Models: models}, nil
}

func (s *FirewatchService) Preview(ctx context.Context, req *pb.PreviewReq) (*pb.PreviewReply, error) {
	article, err := s.uc.Preview(ctx, req.Id, req.Url)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &pb.PreviewReply{Article: article}, nil
}

// mapError 将业务错误转换为带 HTTP 状态码的 kratos 错误
func (s *FirewatchService) mapError(err error) error {
	switch {
	case stderrors.Is(err, model.ErrEmptyKeyword),
		stderrors.Is(err, model.ErrNoSource),
		stderrors.Is(err, model.ErrInvalidWindow),
		stderrors.Is(err, model.ErrInvalidSource),
		stderrors.Is(err, model.ErrInvalidProvider),
		stderrors.Is(err, preview.ErrInvalidURL),
		stderrors.Is(err, engine.ErrMissingCredential):
		return errors.BadRequest(reasonInvalidRequest, err.Error())
	case stderrors.Is(err, domain.ErrSessionNotFound):
		return errors.NotFound(reasonSessionNotFound, err.Error())
	case stderrors.Is(err, domain.ErrLinkNotInSession):
		return errors.Forbidden(reasonLinkNotInSession, err.Error())
	case stderrors.Is(err, domain.ErrRunInProgress):
		return errors.Conflict(reasonRunInProgress, err.Error())
	case stderrors.Is(err, engine.ErrNoResults):
		return errors.Conflict(reasonNoResults, err.Error())
	case stderrors.Is(err, provider.ErrUnsupported):
		return errors.New(501, reasonUnsupported, err.Error())
	}
	s.log.Errorf("request failed: %v", err)
	return errors.New(502, reasonUpstream, err.Error())
}

func providerInput(p *pb.Provider) domain.ProviderInput {
	if p == nil {
		return domain.ProviderInput{}
	}
	return domain.ProviderInput{ID: p.Id, Model: p.Model, APIKey: p.ApiKey}
}

func sessionReply(v *domain.RunView) *pb.SessionReply {
	return &pb.SessionReply{SessionId: v.SessionID, Snapshot: v.Snapshot}
}
