package server

import (
	"github.com/google/wire"

	"github.com/kedah-infodemic/firewatch/app/display/internal/data"
	"github.com/kedah-infodemic/firewatch/app/display/internal/service"
	"github.com/kedah-infodemic/firewatch/app/display/internal/usecase"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/engine"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/preview"
)

// ProviderSet 是展示服务的依赖注入 Provider 集合
var ProviderSet = wire.NewSet(
	// Server providers
	NewHTTPServer,

	// Engine providers
	NewFirewatchConfig,
	NewFirewatchEngine,
	NewPreviewExtractor,
	wire.Bind(new(usecase.Pipeline), new(*engine.Engine)),
	wire.Bind(new(usecase.Previewer), new(*preview.Extractor)),

	// Data providers
	data.NewData,
	data.NewSessionRepo,

	// UseCase providers
	usecase.NewRunUseCase,

	// Service providers
	service.NewFirewatchService,
)
