package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrBindingNotFound = errors.New("order binding not found")
)

// OrderBinding - кому и за какие курсы выставлен заказ
type OrderBinding struct {
	OrderID   string    `json:"orderId"`
	UserID    string    `json:"userId"`
	CourseIDs []string  `json:"courses"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"createdAt"`
}

// OrderCache хранит привязку заказа на время окна оплаты
type OrderCache interface {
	Save(ctx context.Context, binding OrderBinding, ttl time.Duration) error
	Get(ctx context.Context, orderID string) (*OrderBinding, error)
	Delete(ctx context.Context, orderID string) error
}

type RedisOrderCache struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisOrderCache(client redis.UniversalClient) *RedisOrderCache {
	return &RedisOrderCache{client: client, prefix: "order_binding"}
}

func (c *RedisOrderCache) key(orderID string) string {
	return fmt.Sprintf("%s:%s", c.prefix, orderID)
}

func (c *RedisOrderCache) Save(ctx context.Context, binding OrderBinding, ttl time.Duration) error {
	payload, err := json.Marshal(binding)
	if err != nil {
		return fmt.Errorf("marshal order binding: %w", err)
	}
	return c.client.Set(ctx, c.key(binding.OrderID), payload, ttl).Err()
}

func (c *RedisOrderCache) Get(ctx context.Context, orderID string) (*OrderBinding, error) {
	payload, err := c.client.Get(ctx, c.key(orderID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrBindingNotFound
		}
		return nil, err
	}

	var binding OrderBinding
	if err := json.Unmarshal(payload, &binding); err != nil {
		return nil, fmt.Errorf("unmarshal order binding: %w", err)
	}
	return &binding, nil
}

func (c *RedisOrderCache) Delete(ctx context.Context, orderID string) error {
	return c.client.Del(ctx, c.key(orderID)).Err()
}

// NopOrderCache используется, когда Redis не настроен
type NopOrderCache struct{}

func (NopOrderCache) Save(context.Context, OrderBinding, time.Duration) error { return nil }
func (NopOrderCache) Get(context.Context, string) (*OrderBinding, error) {
	return nil, ErrBindingNotFound
}
func (NopOrderCache) Delete(context.Context, string) error { return nil }

// MatchesCourses сравнивает наборы курсов без учета порядка и повторов
func (b *OrderBinding) MatchesCourses(courseIDs []string) bool {
	want := make(map[string]struct{}, len(b.CourseIDs))
	for _, id := range b.CourseIDs {
		want[id] = struct{}{}
	}
	got := make(map[string]struct{}, len(courseIDs))
	for _, id := range courseIDs {
		if _, ok := want[id]; !ok {
			return false
		}
		got[id] = struct{}{}
	}
	return len(got) == len(want)
}
