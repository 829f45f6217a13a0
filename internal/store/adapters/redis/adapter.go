// Package redis implementa el store sobre Redis: un string JSON por registro
// y un set por clave secundaria como índice inverso.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dropDatabas3/littlejohn/internal/store"
)

const (
	recordPrefix    = "littlejohn:rec:"
	secondaryPrefix = "littlejohn:sec:"
)

func init() {
	store.Register("redis", func(ctx context.Context, dsn string) (store.Store, error) {
		return Open(ctx, dsn)
	})
}

type adapter struct {
	client *goredis.Client
}

// Open conecta al Redis del DSN (redis://...) y verifica la conexión.
func Open(ctx context.Context, dsn string) (store.Store, error) {
	opts, err := goredis.ParseURL(dsn)
	if err != nil {
		return nil, fmt.Errorf("redis: parse dsn: %w", err)
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return &adapter{client: client}, nil
}

func recordKey(id string) string     { return recordPrefix + id }
func secondaryKey(sec string) string { return secondaryPrefix + sec }

func (a *adapter) Get(ctx context.Context, id string) (*store.Record, error) {
	b, err := a.client.Get(ctx, recordKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("redis: get %s: %w", id, err)
	}
	var rec store.Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("redis: decode %s: %w", id, err)
	}
	return &rec, nil
}

func (a *adapter) Put(ctx context.Context, rec store.Record) error {
	// Si el registro ya existía con otra secondary hay que sacarlo del
	// índice viejo antes de pisar.
	old, err := a.Get(ctx, rec.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}

	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("redis: encode %s: %w", rec.ID, err)
	}

	pipe := a.client.TxPipeline()
	if old != nil && old.Secondary != "" && old.Secondary != rec.Secondary {
		pipe.SRem(ctx, secondaryKey(old.Secondary), rec.ID)
	}
	pipe.Set(ctx, recordKey(rec.ID), b, 0)
	if rec.Secondary != "" {
		pipe.SAdd(ctx, secondaryKey(rec.Secondary), rec.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: put %s: %w", rec.ID, err)
	}
	return nil
}

func (a *adapter) Delete(ctx context.Context, id string) error {
	old, err := a.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}

	pipe := a.client.TxPipeline()
	pipe.Del(ctx, recordKey(id))
	if old.Secondary != "" {
		pipe.SRem(ctx, secondaryKey(old.Secondary), id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: delete %s: %w", id, err)
	}
	return nil
}

func (a *adapter) Scan(ctx context.Context, prefix string) ([]store.Record, string, error) {
	var out []store.Record
	iter := a.client.Scan(ctx, 0, escapeGlob(recordPrefix+prefix)+"*", 100).Iterator()
	for iter.Next(ctx) {
		id := strings.TrimPrefix(iter.Val(), recordPrefix)
		rec, err := a.Get(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, "", err
		}
		out = append(out, *rec)
	}
	if err := iter.Err(); err != nil {
		return nil, "", fmt.Errorf("redis: scan: %w", err)
	}
	return out, "", nil
}

func (a *adapter) QueryBySecondary(ctx context.Context, secondary string) ([]store.Record, error) {
	ids, err := a.client.SMembers(ctx, secondaryKey(secondary)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: query secondary: %w", err)
	}
	var out []store.Record
	for _, id := range ids {
		rec, err := a.Get(ctx, id)
		if err != nil {
			// Índice huérfano: el registro se borró por otro camino.
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, nil
}

func (a *adapter) Ping(ctx context.Context) error {
	return a.client.Ping(ctx).Err()
}

func (a *adapter) Close() error {
	return a.client.Close()
}

// escapeGlob escapa los metacaracteres de MATCH para que un prefijo con
// '*' o '[' no se interprete como patrón.
func escapeGlob(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "*", `\*`, "?", `\?`, "[", `\[`, "]", `\]`)
	return r.Replace(s)
}
