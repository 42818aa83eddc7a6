package storage

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/adminconsole/internal/cryptox"
)

type scoped struct {
	repo Repository
	ns   string
}

// Scope binds repo to namespace ns.
func Scope(repo Repository, ns string) KV {
	return &scoped{repo: repo, ns: ns}
}

func (s *scoped) Get(ctx context.Context, key string) ([]byte, error) {
	return s.repo.Get(ctx, s.ns, key)
}

func (s *scoped) Set(ctx context.Context, key string, value []byte) error {
	return s.repo.Set(ctx, s.ns, key, value)
}

func (s *scoped) Delete(ctx context.Context, keys ...string) error {
	return s.repo.Delete(ctx, s.ns, keys...)
}

// sealSalt is fixed so a given secret keeps opening existing rows across
// restarts.
var sealSalt = []byte("adminconsole/browser_storage")

// NewSealer derives the storage sealer from an operator secret.
func NewSealer(secret string) (*cryptox.Sealer, error) {
	key := cryptox.DeriveKey([]byte(secret), sealSalt)
	defer cryptox.Wipe(key)
	return cryptox.NewSealer(key)
}

type sealed struct {
	kv     KV
	sealer *cryptox.Sealer
}

// Sealed encrypts every value written through kv and decrypts on read.
func Sealed(kv KV, sealer *cryptox.Sealer) KV {
	return &sealed{kv: kv, sealer: sealer}
}

func (s *sealed) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.kv.Get(ctx, key)
	if err != nil || raw == nil {
		return raw, err
	}
	plain, err := s.sealer.Open(raw)
	if err != nil {
		return nil, fmt.Errorf("unseal %s: %w", key, err)
	}
	return plain, nil
}

func (s *sealed) Set(ctx context.Context, key string, value []byte) error {
	raw, err := s.sealer.Seal(value)
	if err != nil {
		return fmt.Errorf("seal %s: %w", key, err)
	}
	return s.kv.Set(ctx, key, raw)
}

func (s *sealed) Delete(ctx context.Context, keys ...string) error {
	return s.kv.Delete(ctx, keys...)
}
