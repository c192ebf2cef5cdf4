package repo

import (
	"context"

	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/model"
)

// SessionRepo 会话仓库接口，每个会话持有独立的运行上下文
type SessionRepo interface {
	// Create 创建会话，返回会话 ID
	Create(ctx context.Context) (string, *model.Run, error)
	// Get 获取会话的运行上下文，不存在时返回 domain.ErrSessionNotFound
	Get(ctx context.Context, id string) (*model.Run, error)
	// Delete 删除会话
	Delete(ctx context.Context, id string) error
}
