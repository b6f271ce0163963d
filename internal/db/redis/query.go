package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/ondo-cloud/proxi/internal/db"
)

// QueryCoarse executes a planned coarse query: the optional single range
// clause against an ordered index, native equality/membership clauses
// against id sets, and a pipelined hash fetch of the surviving ids.
func (s *Store) QueryCoarse(ctx context.Context, q *db.CoarseQuery) ([]db.Record, error) {
	if err := q.Validate(db.DefaultCapability()); err != nil {
		return nil, fmt.Errorf("coarse query: %w", err)
	}

	var idLists [][]string

	if q.Range != nil {
		ids, err := s.rangeIDs(ctx, q.Kind, q.Range)
		if err != nil {
			return nil, err
		}
		idLists = append(idLists, ids)
	}

	if len(q.Equalities) > 0 {
		keys := make([]string, len(q.Equalities))
		for i, eq := range q.Equalities {
			keys[i] = s.memberKey(q.Kind, eq.Field, eq.Value)
		}
		cmd := s.b().Sinter().Key(keys...).Build()
		ids, err := s.do(ctx, cmd).AsStrSlice()
		if err != nil {
			return nil, &db.Error{Op: db.OpSInterCard, Err: err}
		}
		idLists = append(idLists, ids)
	}

	for _, in := range q.In {
		keys := make([]string, len(in.Values))
		for i, v := range in.Values {
			keys[i] = s.memberKey(q.Kind, in.Field, v)
		}
		cmd := s.b().Sunion().Key(keys...).Build()
		ids, err := s.do(ctx, cmd).AsStrSlice()
		if err != nil {
			return nil, &db.Error{Op: db.OpSUnion, Err: err}
		}
		idLists = append(idLists, ids)
	}

	if len(idLists) == 0 {
		cmd := s.b().Smembers().Key(s.allKey(q.Kind)).Build()
		ids, err := s.do(ctx, cmd).AsStrSlice()
		if err != nil {
			return nil, &db.Error{Op: db.OpSMembers, Err: err}
		}
		idLists = append(idLists, ids)
	}

	ids := intersect(idLists)
	if len(ids) == 0 {
		return []db.Record{}, nil
	}

	return s.fetchRecords(ctx, q.Kind, ids)
}

// rangeIDs resolves the single range clause via ZRANGEBYSCORE on the
// ordered index for the field.
func (s *Store) rangeIDs(ctx context.Context, kind string, r *db.RangeClause) ([]string, error) {
	min := strconv.FormatFloat(r.Min, 'f', -1, 64)
	max := strconv.FormatFloat(r.Max, 'f', -1, 64)
	cmd := s.b().Zrangebyscore().Key(s.orderedKey(kind, r.Field)).Min(min).Max(max).Build()
	ids, err := s.do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, &db.Error{Op: db.OpZRangeByScore, Err: err}
	}
	return ids, nil
}

// fetchRecords pipelines HGETALL for every candidate id. Ids whose hash
// vanished between index read and fetch are silently skipped.
func (s *Store) fetchRecords(ctx context.Context, kind string, ids []string) ([]db.Record, error) {
	cmds := make([]rueidis.Completed, len(ids))
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.entityKey(kind, id)
		cmds[i] = s.b().Hgetall().Key(keys[i]).Build()
	}

	records := make([]db.Record, 0, len(ids))
	for i, res := range s.client.DoMulti(ctx, cmds...) {
		m, err := res.AsStrMap()
		if err != nil {
			return nil, &db.Error{Op: db.OpHGetAll, Err: fmt.Errorf("key %s: %w", keys[i], err)}
		}
		if len(m) == 0 {
			continue
		}
		records = append(records, db.Record{Key: keys[i], Fields: m})
	}
	return records, nil
}

// intersect keeps ids present in every list, preserving the order of the
// smallest list.
func intersect(lists [][]string) []string {
	if len(lists) == 1 {
		return lists[0]
	}

	smallest := 0
	for i, l := range lists {
		if len(l) < len(lists[smallest]) {
			smallest = i
		}
	}

	sets := make([]map[string]struct{}, 0, len(lists)-1)
	for i, l := range lists {
		if i == smallest {
			continue
		}
		set := make(map[string]struct{}, len(l))
		for _, id := range l {
			set[id] = struct{}{}
		}
		sets = append(sets, set)
	}

	out := make([]string, 0, len(lists[smallest]))
next:
	for _, id := range lists[smallest] {
		for _, set := range sets {
			if _, ok := set[id]; !ok {
				continue next
			}
		}
		out = append(out, id)
	}
	return out
}
