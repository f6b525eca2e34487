package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrLinkNotFound = errors.New("magic link not found or already used")

const linkTTL = 15 * time.Minute

// LinkPayload is what a pending magic link stands for.
type LinkPayload struct {
	Email      string            `json:"email"`
	RedirectTo string            `json:"redirect_to"`
	CreateUser bool              `json:"create_user"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// LinkStore keeps pending magic-link tokens in Redis, hashed, with a TTL.
// Consume is destructive, so every link is single use.
type LinkStore struct {
	rdb *redis.Client
}

func NewLinkStore(rdb *redis.Client) *LinkStore {
	return &LinkStore{rdb: rdb}
}

func linkKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "magiclink:" + hex.EncodeToString(sum[:])
}

func (s *LinkStore) Save(ctx context.Context, token string, payload LinkPayload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, linkKey(token), raw, linkTTL).Err()
}

func (s *LinkStore) Consume(ctx context.Context, token string) (*LinkPayload, error) {
	raw, err := s.rdb.GetDel(ctx, linkKey(token)).Result()
	if err == redis.Nil {
		return nil, ErrLinkNotFound
	}
	if err != nil {
		return nil, err
	}

	var payload LinkPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}
