package server

import (
	"github.com/google/wire"

	"github.com/iWorld-y/meeting_briefing/app/server/internal/service"
)

// ProviderSet 是简报服务的依赖注入 Provider 集合
var ProviderSet = wire.NewSet(
	// Server providers
	NewHTTPServer,

	// Engine providers
	NewBriefingEngine,

	// Service providers
	service.NewBriefingService,
)
