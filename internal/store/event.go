package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// sequenceCounter manages the global monotonic sequence number shared by
// all play events. Auto-increment IDs are not reused across imports, so a
// dedicated counter gives every event a single increasing position.
//
// Uses raw SQL because the builder has no atomic counter. The mutex
// serializes within the process; the RETURNING clause makes the increment
// atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// eventRepo implements EventRepo over SQLite.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) AppendPlayEvent(ctx context.Context, data PlayEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(PlayEventsTable.Name).
		Columns("sequence", "timestamp", "session_id", "quiz_id", "action",
			"question_index", "total", "target_id", "chosen_id", "correct", "score").
		Values(seqNum, time.Now().UnixMilli(), data.SessionID, data.QuizID, string(data.Action),
			data.QuestionIndex, data.Total, nullString(data.TargetID), nullString(data.ChosenID),
			data.Correct, data.Score).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save play event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryPlayEvents(ctx context.Context, opts QueryOpts) ([]PlayEvent, error) {
	sel := builder().Select(columnNames(PlayEventsColumns)...).
		From(entsql.Table(PlayEventsTable.Name)).
		OrderBy("sequence")

	var preds []*entsql.Predicate
	if opts.SessionID != "" {
		preds = append(preds, entsql.EQ("session_id", opts.SessionID))
	}
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if len(preds) > 0 {
		sel = sel.Where(entsql.And(preds...))
	}
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}
	return r.query(ctx, sel)
}

func (r *eventRepo) QueryPlaySummaries(ctx context.Context, limit int) ([]PlaySummary, error) {
	recent := builder().Select("session_id", entsql.As(entsql.Max("sequence"), "last_seq")).
		From(entsql.Table(PlayEventsTable.Name)).
		GroupBy("session_id").
		OrderBy(entsql.Desc("last_seq"))
	if limit > 0 {
		recent = recent.Limit(limit)
	}

	query, args := recent.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recent sessions: %w", err)
	}
	var ids []any
	for rows.Next() {
		var id string
		var last int64
		if err := rows.Scan(&id, &last); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan session: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	events, err := r.query(ctx, builder().Select(columnNames(PlayEventsColumns)...).
		From(entsql.Table(PlayEventsTable.Name)).
		Where(entsql.In("session_id", ids...)).
		OrderBy("sequence"))
	if err != nil {
		return nil, err
	}
	return summarize(events), nil
}

// summarize folds events (in sequence order) into one summary per session,
// most recently active first.
func summarize(events []PlayEvent) []PlaySummary {
	bySession := make(map[string]*PlaySummary)
	lastSeq := make(map[string]int64)
	for _, e := range events {
		s, ok := bySession[e.SessionID]
		if !ok {
			s = &PlaySummary{SessionID: e.SessionID, QuizID: e.QuizID, StartedAt: e.Timestamp}
			bySession[e.SessionID] = s
		}
		lastSeq[e.SessionID] = e.Sequence
		if e.Total > 0 {
			s.Total = e.Total
		}
		switch e.Action {
		case PlayStart:
			s.StartedAt = e.Timestamp
		case PlayAnswer:
			s.Answered++
			s.Score = e.Score
		case PlayEnd:
			s.EndedAt = e.Timestamp
			s.Score = e.Score
		}
	}

	out := make([]PlaySummary, 0, len(bySession))
	for _, s := range bySession {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		return lastSeq[out[i].SessionID] > lastSeq[out[j].SessionID]
	})
	return out
}

func (r *eventRepo) query(ctx context.Context, sel *entsql.Selector) ([]PlayEvent, error) {
	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query play events: %w", err)
	}
	defer rows.Close()

	var out []PlayEvent
	for rows.Next() {
		var (
			e              PlayEvent
			ts             int64
			action         string
			target, chosen sql.NullString
		)
		err := rows.Scan(&e.ID, &e.Sequence, &ts, &e.SessionID, &e.QuizID, &action,
			&e.QuestionIndex, &e.Total, &target, &chosen, &e.Correct, &e.Score)
		if err != nil {
			return nil, fmt.Errorf("scan play event: %w", err)
		}
		e.Timestamp = time.UnixMilli(ts)
		e.Action = PlayAction(action)
		e.TargetID = target.String
		e.ChosenID = chosen.String
		out = append(out, e)
	}
	return out, rows.Err()
}
