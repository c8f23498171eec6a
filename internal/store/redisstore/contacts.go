package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Manish1808/Cybernauts/internal/domain"
	"github.com/Manish1808/Cybernauts/internal/store"
)

var _ store.Contacts = (*Contacts)(nil)

const contactIndexKey = "contacts:index"

func contactKey(id string) string {
	return "contact:" + id
}

// Contacts stores each contact as a JSON string with a TTL and indexes the
// ids in a sorted set scored by creation time in milliseconds. The index is
// pruned lazily on list.
type Contacts struct {
	rdb       redis.Cmdable
	retention time.Duration
	Now       func() time.Time
}

func NewContacts(rdb redis.Cmdable, retention time.Duration) *Contacts {
	return &Contacts{rdb: rdb, retention: retention, Now: time.Now}
}

func (s *Contacts) CreateContact(ctx context.Context, c *domain.Contact) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode contact: %w", err)
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, contactKey(c.ID), string(data), s.retention)
	pipe.ZAdd(ctx, contactIndexKey, redis.Z{Score: float64(c.CreatedAt.UnixMilli()), Member: c.ID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save contact: %w", err)
	}
	return nil
}

// ListContacts returns the live contacts newest first.
func (s *Contacts) ListContacts(ctx context.Context) ([]domain.Contact, error) {
	cutoff := s.Now().Add(-s.retention).UnixMilli()
	if err := s.rdb.ZRemRangeByScore(ctx, contactIndexKey, "-inf", strconv.FormatInt(cutoff, 10)).Err(); err != nil {
		return nil, fmt.Errorf("prune contacts: %w", err)
	}

	ids, err := s.rdb.ZRevRange(ctx, contactIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	contacts := make([]domain.Contact, 0, len(ids))
	if len(ids) == 0 {
		return contacts, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = contactKey(id)
	}
	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load contacts: %w", err)
	}

	var stale []interface{}
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			stale = append(stale, ids[i])
			continue
		}
		var c domain.Contact
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			stale = append(stale, ids[i])
			continue
		}
		contacts = append(contacts, c)
	}
	if len(stale) > 0 {
		// expired before the index caught up
		s.rdb.ZRem(ctx, contactIndexKey, stale...)
	}
	return contacts, nil
}

func (s *Contacts) GetContact(ctx context.Context, id string) (*domain.Contact, error) {
	raw, err := s.rdb.Get(ctx, contactKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrContactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get contact: %w", err)
	}

	var c domain.Contact
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, fmt.Errorf("decode contact: %w", err)
	}
	return &c, nil
}

func (s *Contacts) DeleteContact(ctx context.Context, id string) error {
	pipe := s.rdb.TxPipeline()
	del := pipe.Del(ctx, contactKey(id))
	pipe.ZRem(ctx, contactIndexKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if del.Val() == 0 {
		return domain.ErrContactNotFound
	}
	return nil
}
