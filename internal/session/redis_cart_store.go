package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/foodcart/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// RedisCartStore keeps session carts in Redis under cart:<session id>.
// Every Save refreshes the TTL, so an idle cart expires with its session.
type RedisCartStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCartStore(client *redis.Client, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{client: client, ttl: ttl}
}

type cartRecord struct {
	ID        string       `json:"id"`
	Currency  string       `json:"currency,omitempty"`
	Lines     []lineRecord `json:"lines"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type lineRecord struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	ImageURL    string          `json:"image_url,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

func (s *RedisCartStore) Get(ctx context.Context, id string) (*domain.Cart, error) {
	data, err := s.client.Get(ctx, cartKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.NewCart(id), nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var rec cartRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}

	cart, err := recordToCart(rec)
	if err != nil {
		return nil, fmt.Errorf("recordToCart: %w", err)
	}

	return cart, nil
}

func (s *RedisCartStore) Save(ctx context.Context, cart *domain.Cart) error {
	data, err := json.Marshal(cartToRecord(cart))
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	if err := s.client.Set(ctx, cartKey(cart.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

func (s *RedisCartStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, cartKey(id)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}

	return nil
}

func cartKey(id string) string {
	return "cart:" + id
}

func cartToRecord(cart *domain.Cart) cartRecord {
	rec := cartRecord{
		ID:        cart.ID,
		Lines:     make([]lineRecord, 0, len(cart.Lines)),
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
	}
	if !cart.IsEmpty() {
		rec.Currency = cart.Currency.String()
	}

	for _, line := range cart.Lines {
		rec.Lines = append(rec.Lines, lineRecord{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			ImageURL:    line.ImageURL,
			UnitPrice:   line.UnitPrice.Amount,
			Quantity:    line.Quantity,
			Subtotal:    line.Subtotal.Amount,
		})
	}

	return rec
}

func recordToCart(rec cartRecord) (*domain.Cart, error) {
	cart := &domain.Cart{
		ID:        rec.ID,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}

	if rec.Currency != "" {
		cur, err := currency.ParseISO(rec.Currency)
		if err != nil {
			return nil, fmt.Errorf("currency[%s] is not valid: %w", rec.Currency, err)
		}
		cart.Currency = cur
	}

	for _, line := range rec.Lines {
		cart.Lines = append(cart.Lines, domain.CartLine{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			ImageURL:    line.ImageURL,
			UnitPrice:   domain.NewMoney(line.UnitPrice, cart.Currency),
			Quantity:    line.Quantity,
			Subtotal:    domain.NewMoney(line.Subtotal, cart.Currency),
		})
	}

	return cart, nil
}
