package repository

import "context"

// CacheRepository — кэш read-проекций (выписка, сводка по клиенту).
// Кэширование необязательно: сервисы работают и с nil-кэшем.
type CacheRepository interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, keys ...string) error
}
