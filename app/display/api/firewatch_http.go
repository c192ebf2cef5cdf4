package api

import (
	"context"

	"github.com/go-kratos/kratos/v2/transport/http"
)

const OperationFirewatchRun = "/api.firewatch.v1.Firewatch/Run"
const OperationFirewatchAnalyze = "/api.firewatch.v1.Firewatch/Analyze"
const OperationFirewatchGetSession = "/api.firewatch.v1.Firewatch/GetSession"
const OperationFirewatchDeleteSession = "/api.firewatch.v1.Firewatch/DeleteSession"
const OperationFirewatchGetFeed = "/api.firewatch.v1.Firewatch/GetFeed"
const OperationFirewatchListProviders = "/api.firewatch.v1.Firewatch/ListProviders"
const OperationFirewatchListModels = "/api.firewatch.v1.Firewatch/ListModels"
const OperationFirewatchPreview = "/api.firewatch.v1.Firewatch/Preview"

const rssContentType = "application/rss+xml; charset=utf-8"

type FirewatchHTTPServer interface {
	Run(context.Context, *RunReq) (*SessionReply, error)
	Analyze(context.Context, *AnalyzeReq) (*SessionReply, error)
	GetSession(context.Context, *GetSessionReq) (*SessionReply, error)
	DeleteSession(context.Context, *DeleteSessionReq) (*DeleteSessionReply, error)
	GetFeed(context.Context, *GetFeedReq) (*GetFeedReply, error)
	ListProviders(context.Context, *ListProvidersReq) (*ListProvidersReply, error)
	ListModels(context.Context, *ListModelsReq) (*ListModelsReply, error)
	Preview(context.Context, *PreviewReq) (*PreviewReply, error)
}

func RegisterFirewatchHTTPServer(s *http.Server, srv FirewatchHTTPServer) {
	r := s.Route("/")
	r.POST("/api/v1/runs", _Firewatch_Run0_HTTP_Handler(srv))
	r.POST("/api/v1/sessions/{id}/analyze", _Firewatch_Analyze0_HTTP_Handler(srv))
	r.GET("/api/v1/sessions/{id}", _Firewatch_GetSession0_HTTP_Handler(srv))
	r.DELETE("/api/v1/sessions/{id}", _Firewatch_DeleteSession0_HTTP_Handler(srv))
	r.GET("/api/v1/sessions/{id}/feed", _Firewatch_GetFeed0_HTTP_Handler(srv))
	r.GET("/api/v1/providers", _Firewatch_ListProviders0_HTTP_Handler(srv))
	r.POST("/api/v1/providers/{id}/models", _Firewatch_ListModels0_HTTP_Handler(srv))
	r.GET("/api/v1/sessions/{id}/preview", _Firewatch_Preview0_HTTP_Handler(srv))
}

func _Firewatch_Run0_HTTP_Handler(srv FirewatchHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in RunReq
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationFirewatchRun)
		h := ctx.Middleware(func(ctx context.Context, req any) (any, error) {
			return srv.Run(ctx, req.(*RunReq))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*SessionReply)
		return ctx.Result(200, reply)
	}
}

func _Firewatch_Analyze0_HTTP_Handler(srv FirewatchHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in AnalyzeReq
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		in.Id = ctx.Vars().Get("id")
		http.SetOperation(ctx, OperationFirewatchAnalyze)
		h := ctx.Middleware(func(ctx context.Context, req any) (any, error) {
			return srv.Analyze(ctx, req.(*AnalyzeReq))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*SessionReply)
		return ctx.Result(200, reply)
	}
}

func _Firewatch_GetSession0_HTTP_Handler(srv FirewatchHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		in := GetSessionReq{Id: ctx.Vars().Get("id")}
		http.SetOperation(ctx, OperationFirewatchGetSession)
		h := ctx.Middleware(func(ctx context.Context, req any) (any, error) {
			return srv.GetSession(ctx, req.(*GetSessionReq))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*SessionReply)
		return ctx.Result(200, reply)
	}
}

func _Firewatch_DeleteSession0_HTTP_Handler(srv FirewatchHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		in := DeleteSessionReq{Id: ctx.Vars().Get("id")}
		http.SetOperation(ctx, OperationFirewatchDeleteSession)
		h := ctx.Middleware(func(ctx context.Context, req any) (any, error) {
			return srv.DeleteSession(ctx, req.(*DeleteSessionReq))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*DeleteSessionReply)
		return ctx.Result(200, reply)
	}
}

// RSS 直接写出 XML，不经过 JSON 编码
func _Firewatch_GetFeed0_HTTP_Handler(srv FirewatchHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		in := GetFeedReq{Id: ctx.Vars().Get("id")}
		http.SetOperation(ctx, OperationFirewatchGetFeed)
		h := ctx.Middleware(func(ctx context.Context, req any) (any, error) {
			return srv.GetFeed(ctx, req.(*GetFeedReq))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*GetFeedReply)
		return ctx.Blob(200, rssContentType, []byte(reply.Content))
	}
}

func _Firewatch_ListProviders0_HTTP_Handler(srv FirewatchHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in ListProvidersReq
		http.SetOperation(ctx, OperationFirewatchListProviders)
		h := ctx.Middleware(func(ctx context.Context, req any) (any, error) {
			return srv.ListProviders(ctx, req.(*ListProvidersReq))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*ListProvidersReply)
		return ctx.Result(200, reply)
	}
}

func _Firewatch_ListModels0_HTTP_Handler(srv FirewatchHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in ListModelsReq
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		in.Id = ctx.Vars().Get("id")
		http.SetOperation(ctx, OperationFirewatchListModels)
		h := ctx.Middleware(func(ctx context.Context, req any) (any, error) {
			return srv.ListModels(ctx, req.(*ListModelsReq))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*ListModelsReply)
		return ctx.Result(200, reply)
	}
}

func _Firewatch_Preview0_HTTP_Handler(srv FirewatchHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		in := PreviewReq{Id: ctx.Vars().Get("id"), Url: ctx.Query().Get("url")}
		http.SetOperation(ctx, OperationFirewatchPreview)
		h := ctx.Middleware(func(ctx context.Context, req any) (any, error) {
			return srv.Preview(ctx, req.(*PreviewReq))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*PreviewReply)
		return ctx.Result(200, reply)
	}
}
