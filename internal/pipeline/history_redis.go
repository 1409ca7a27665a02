package pipeline

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/kittynxr/maowbot/internal/apperr"
)

// RedisHistoryMaxRecords bounds the capped list this store maintains per
// key, mirroring MemHistoryStore's count cap so both backends behave the
// same way under the same retention decision.
const RedisHistoryMaxRecords = MemHistoryMaxRecords

// RedisHistoryKeyTTL is applied to every history key on each append so
// abandoned pipelines' history eventually expires even without new writes.
const RedisHistoryKeyTTL = MemHistoryMaxAge

// RedisHistoryStore is a HistoryStore backed by Redis, for HA deployments
// where execution history must survive a control-plane process restart.
// Each pipeline gets its own capped list key; a shared "all" key aggregates
// across pipelines for pipeline_id-less queries.
type RedisHistoryStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisHistoryStore wraps client. keyPrefix namespaces keys (e.g.
// "maowbot:history:").
func NewRedisHistoryStore(client *redis.Client, keyPrefix string) *RedisHistoryStore {
	return &RedisHistoryStore{client: client, keyPrefix: keyPrefix}
}

func (s *RedisHistoryStore) key(pipelineID string) string {
	if pipelineID == "" {
		pipelineID = "all"
	}
	return s.keyPrefix + pipelineID
}

func (s *RedisHistoryStore) AppendHistory(ctx context.Context, rec ExecutionRecord) error {
	blob, err := json.Marshal(rec)
	if err != nil {
		return apperr.Wrap(apperr.KindRepository, "marshaling execution record", err)
	}

	pipe := s.client.Pipeline()
	for _, key := range []string{s.key(rec.PipelineID), s.key("")} {
		pipe.LPush(ctx, key, blob)
		pipe.LTrim(ctx, key, 0, RedisHistoryMaxRecords-1)
		pipe.Expire(ctx, key, RedisHistoryKeyTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return apperr.Wrap(apperr.KindRepository, "appending execution record", err)
	}
	return nil
}

func (s *RedisHistoryStore) History(ctx context.Context, pipelineID string, limit, offset int) ([]ExecutionRecord, error) {
	if offset < 0 {
		offset = 0
	}
	stop := int64(-1)
	if limit > 0 {
		stop = int64(offset + limit - 1)
	}
	raw, err := s.client.LRange(ctx, s.key(pipelineID), int64(offset), stop).Result()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindRepository, "reading execution history", err)
	}
	out := make([]ExecutionRecord, 0, len(raw))
	for _, blob := range raw {
		var rec ExecutionRecord
		if err := json.Unmarshal([]byte(blob), &rec); err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

var _ HistoryStore = (*RedisHistoryStore)(nil)
