package resultstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/destiny/internal/domain/analysis"
)

// ValkeyStore keeps results as JSON documents in a Valkey-compatible database.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "destiny"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) Get(ctx context.Context, fingerprint string) (analysis.Result, bool, error) {
	if fingerprint == "" {
		return analysis.Result{}, false, nil
	}
	payload, err := s.client.Do(ctx, s.client.B().Get().Key(s.resultKey(fingerprint)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return analysis.Result{}, false, nil
		}
		return analysis.Result{}, false, err
	}
	var result analysis.Result
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return analysis.Result{}, false, fmt.Errorf("decode cached result: %w", err)
	}
	return result, true, nil
}

func (s *ValkeyStore) Set(ctx context.Context, fingerprint string, result analysis.Result, ttl time.Duration) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.resultKey(fingerprint)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) Delete(ctx context.Context, fingerprint string) error {
	return s.client.Do(ctx, s.client.B().Del().Key(s.resultKey(fingerprint)).Build()).Error()
}

func (s *ValkeyStore) resultKey(fingerprint string) string {
	return fmt.Sprintf("%s:result:%s", s.prefix, fingerprint)
}

var _ analysis.Store = (*ValkeyStore)(nil)
