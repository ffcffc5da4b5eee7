package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	if data.Action != SessionStart && data.Action != SessionEnd {
		return fmt.Errorf("unknown session action %q", data.Action)
	}
	return r.insert(ctx, sessionEventsTable,
		[]string{
			"session_id", "action", "name", "topic", "per_level",
			"score", "passed", "suggestion", "answered", "duration_secs",
		},
		[]any{
			data.SessionID, data.Action, data.Name, data.Topic, data.PerLevel,
			data.Score, data.Passed, data.Suggestion, data.Answered, data.DurationSecs,
		},
	)
}

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	return r.insert(ctx, answerEventsTable,
		[]string{"session_id", "level", "question", "answer", "timed_out", "elapsed_ms"},
		[]any{data.SessionID, data.Level, data.Question, data.Answer, data.TimedOut, data.ElapsedMs},
	)
}

var sessionEventColumns = []string{
	"session_id", "timestamp", "action", "name", "topic", "per_level",
	"score", "passed", "suggestion", "answered", "duration_secs",
}

type sessionRow struct {
	SessionEventData
	Timestamp time.Time
}

func (r *eventRepo) querySessionRows(ctx context.Context, sel *entsql.Selector) ([]sessionRow, error) {
	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	var out []sessionRow
	for rows.Next() {
		var s sessionRow
		if err := rows.Scan(
			&s.SessionID, &s.Timestamp, &s.Action, &s.Name, &s.Topic, &s.PerLevel,
			&s.Score, &s.Passed, &s.Suggestion, &s.Answered, &s.DurationSecs,
		); err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *eventRepo) ListSessions(ctx context.Context, limit int) ([]SessionSummary, error) {
	sel := builder().Select(sessionEventColumns...).
		From(entsql.Table(sessionEventsTable)).
		Where(entsql.EQ("action", SessionStart)).
		OrderBy(entsql.Desc("sequence"))
	if limit > 0 {
		sel.Limit(limit)
	}
	starts, err := r.querySessionRows(ctx, sel)
	if err != nil {
		return nil, err
	}
	if len(starts) == 0 {
		return nil, nil
	}

	ids := make([]any, len(starts))
	for i, s := range starts {
		ids[i] = s.SessionID
	}
	ends, err := r.querySessionRows(ctx, builder().Select(sessionEventColumns...).
		From(entsql.Table(sessionEventsTable)).
		Where(entsql.And(
			entsql.EQ("action", SessionEnd),
			entsql.In("session_id", ids...),
		)))
	if err != nil {
		return nil, err
	}
	endByID := make(map[string]sessionRow, len(ends))
	for _, e := range ends {
		endByID[e.SessionID] = e
	}

	out := make([]SessionSummary, len(starts))
	for i, s := range starts {
		end, ok := endByID[s.SessionID]
		out[i] = summarize(s, end, ok)
	}
	return out, nil
}

func (r *eventRepo) GetSession(ctx context.Context, sessionID string) (*SessionSummary, error) {
	rows, err := r.querySessionRows(ctx, builder().Select(sessionEventColumns...).
		From(entsql.Table(sessionEventsTable)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy("sequence"))
	if err != nil {
		return nil, err
	}

	var (
		start, end         sessionRow
		hasStart, finished bool
	)
	for _, row := range rows {
		switch row.Action {
		case SessionStart:
			start, hasStart = row, true
		case SessionEnd:
			end, finished = row, true
		}
	}
	if !hasStart {
		return nil, nil
	}
	s := summarize(start, end, finished)
	return &s, nil
}

func summarize(start, end sessionRow, finished bool) SessionSummary {
	s := SessionSummary{
		SessionID: start.SessionID,
		StartedAt: start.Timestamp,
		Name:      start.Name,
		Topic:     start.Topic,
		PerLevel:  start.PerLevel,
		Finished:  finished,
	}
	if finished {
		s.Score = end.Score
		s.Passed = end.Passed
		s.Suggestion = end.Suggestion
		s.Answered = end.Answered
		s.Duration = time.Duration(end.DurationSecs) * time.Second
	}
	return s
}

func (r *eventRepo) SessionAnswers(ctx context.Context, sessionID string) ([]AnswerRecord, error) {
	query, args := builder().Select(
		"sequence", "timestamp", "session_id", "level", "question", "answer", "timed_out", "elapsed_ms",
	).
		From(entsql.Table(answerEventsTable)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy("sequence").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	defer rows.Close()

	var out []AnswerRecord
	for rows.Next() {
		var a AnswerRecord
		if err := rows.Scan(
			&a.Sequence, &a.Timestamp, &a.SessionID, &a.Level,
			&a.Question, &a.Answer, &a.TimedOut, &a.ElapsedMs,
		); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
