package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/ondo-cloud/proxi/internal/db"
)

// Internal hash fields tracking which index keys reference the entity,
// so updates and deletes can clean stale memberships.
const (
	fieldIdxMembers = "__idx_members"
	fieldIdxOrdered = "__idx_ordered"
)

// PutEntity writes the entity hash and its secondary index memberships
// in one pipelined round-trip. Stale memberships from a previous version
// of the entity are removed first.
func (s *Store) PutEntity(ctx context.Context, rec *db.EntityRecord) error {
	key := s.entityKey(rec.Kind, rec.ID)

	old, err := s.hGetAll(ctx, key)
	if err != nil {
		return err
	}

	var cmds []rueidis.Completed
	if len(old) > 0 {
		cmds = append(cmds, s.indexCleanupCmds(rec.Kind, rec.ID, old)...)
		cmds = append(cmds, s.b().Del().Key(key).Build())
	}

	fields := make(map[string]string, len(rec.Fields)+2)
	for k, v := range rec.Fields {
		fields[k] = v
	}
	membersJSON, err := json.Marshal(rec.Members)
	if err != nil {
		return fmt.Errorf("encode index members: %w", err)
	}
	orderedNames := make([]string, 0, len(rec.Ordered))
	for f := range rec.Ordered {
		orderedNames = append(orderedNames, f)
	}
	orderedJSON, err := json.Marshal(orderedNames)
	if err != nil {
		return fmt.Errorf("encode index ordered fields: %w", err)
	}
	fields[fieldIdxMembers] = string(membersJSON)
	fields[fieldIdxOrdered] = string(orderedJSON)

	hset := s.b().Hset().Key(key).FieldValue()
	for k, v := range fields {
		hset = hset.FieldValue(k, v)
	}
	cmds = append(cmds, hset.Build())
	cmds = append(cmds, s.b().Sadd().Key(s.allKey(rec.Kind)).Member(rec.ID).Build())
	for _, m := range rec.Members {
		cmds = append(cmds, s.b().Sadd().Key(s.memberKey(rec.Kind, m.Field, m.Value)).Member(rec.ID).Build())
	}
	for f, score := range rec.Ordered {
		cmds = append(cmds, s.b().Zadd().Key(s.orderedKey(rec.Kind, f)).
			ScoreMember().ScoreMember(score, rec.ID).Build())
	}

	for i, res := range s.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			return &db.Error{Op: db.OpHSet, Err: fmt.Errorf("cmd %d for %s: %w", i, key, err)}
		}
	}
	return nil
}

// GetEntity returns the raw entity hash, or db.ErrKeyNotFound.
func (s *Store) GetEntity(ctx context.Context, kind, id string) (db.Record, error) {
	key := s.entityKey(kind, id)
	m, err := s.hGetAll(ctx, key)
	if err != nil {
		return db.Record{}, err
	}
	if len(m) == 0 {
		return db.Record{}, db.ErrKeyNotFound
	}
	return db.Record{Key: key, Fields: m}, nil
}

// DeleteEntity removes the entity hash and all its index memberships.
func (s *Store) DeleteEntity(ctx context.Context, kind, id string) error {
	key := s.entityKey(kind, id)
	old, err := s.hGetAll(ctx, key)
	if err != nil {
		return err
	}
	if len(old) == 0 {
		return db.ErrKeyNotFound
	}

	cmds := s.indexCleanupCmds(kind, id, old)
	cmds = append(cmds, s.b().Del().Key(key).Build())

	for _, res := range s.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			return &db.Error{Op: db.OpDel, Err: fmt.Errorf("key %s: %w", key, err)}
		}
	}
	return nil
}

// indexCleanupCmds builds the SREM/ZREM commands removing the id from
// every index key recorded in the stored hash.
func (s *Store) indexCleanupCmds(kind, id string, fields map[string]string) []rueidis.Completed {
	cmds := []rueidis.Completed{
		s.b().Srem().Key(s.allKey(kind)).Member(id).Build(),
	}

	var members []db.Equality
	if raw := fields[fieldIdxMembers]; raw != "" {
		_ = json.Unmarshal([]byte(raw), &members) // tolerate legacy hashes
	}
	for _, m := range members {
		cmds = append(cmds, s.b().Srem().Key(s.memberKey(kind, m.Field, m.Value)).Member(id).Build())
	}

	var ordered []string
	if raw := fields[fieldIdxOrdered]; raw != "" {
		_ = json.Unmarshal([]byte(raw), &ordered)
	}
	for _, f := range ordered {
		cmds = append(cmds, s.b().Zrem().Key(s.orderedKey(kind, f)).Member(id).Build())
	}
	return cmds
}

func (s *Store) hGetAll(ctx context.Context, key string) (map[string]string, error) {
	cmd := s.b().Hgetall().Key(key).Build()
	m, err := s.do(ctx, cmd).AsStrMap()
	if err != nil {
		return nil, &db.Error{Op: db.OpHGetAll, Err: err}
	}
	return m, nil
}
