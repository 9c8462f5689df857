package results

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wellplay/game-server/internal/game"
)

// Record is one persisted game result.
type Record struct {
	ID             string    `json:"id"`
	SessionID      string    `json:"sessionId"`
	Attempt        int       `json:"attempt"`
	GameID         string    `json:"gameId"`
	GameType       string    `json:"gameType"`
	Title          string    `json:"title"`
	Score          int       `json:"score"`
	MaxScore       int       `json:"maxScore"`
	TimeSpent      int       `json:"timeSpent"`
	CorrectAnswers int       `json:"correctAnswers"`
	TotalQuestions int       `json:"totalQuestions"`
	Accuracy       float64   `json:"accuracy"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NewRecord flattens a completed session's result into a row.
func NewRecord(s game.Session, r game.Result, now time.Time) Record {
	rec := Record{
		ID:             uuid.NewString(),
		SessionID:      s.ID,
		Attempt:        s.State.Attempt,
		Score:          r.Score,
		MaxScore:       r.MaxScore,
		TimeSpent:      r.TimeSpent,
		CorrectAnswers: r.CorrectAnswers,
		TotalQuestions: r.TotalQuestions,
		Accuracy:       r.Accuracy,
		CreatedAt:      now.UTC(),
	}
	if s.Game != nil {
		rec.GameID = s.Game.ID
		rec.GameType = string(s.Game.Type)
		rec.Title = s.Game.Title
	}
	return rec
}

// TypeSummary aggregates results for one game type.
type TypeSummary struct {
	GameType     string  `json:"gameType"`
	Plays        int     `json:"plays"`
	AvgAccuracy  float64 `json:"avgAccuracy"`
	AvgTimeSpent float64 `json:"avgTimeSpent"`
	BestScore    int     `json:"bestScore"`
}

// Store reads and writes game_results.
type Store struct{ db *DB }

func NewStore(db *DB) *Store { return &Store{db: db} }

// Insert writes r. A second insert for the same session attempt is ignored,
// so a retried completion callback cannot double-report while a replay after
// reset gets its own row.
func (s *Store) Insert(ctx context.Context, r Record) (bool, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.exec(ctx, s.db.dialect.insertIgnore(`
        INSERT INTO game_results
            (id, session_id, attempt, game_id, game_type, title, score, max_score,
             time_spent, correct_answers, total_questions, accuracy, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		r.ID, r.SessionID, r.Attempt, r.GameID, r.GameType, r.Title, r.Score, r.MaxScore,
		r.TimeSpent, r.CorrectAnswers, r.TotalQuestions, r.Accuracy, r.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Exists reports whether any result was stored for sessionID.
func (s *Store) Exists(ctx context.Context, sessionID string) (bool, error) {
	var cnt int
	err := s.db.queryRow(ctx,
		`SELECT COUNT(1) FROM game_results WHERE session_id=?`, sessionID,
	).Scan(&cnt)
	return cnt > 0, err
}

// Recent returns the newest results first. Default limit is 20.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.query(ctx, `
        SELECT id, session_id, attempt, game_id, game_type, title, score, max_score,
               time_spent, correct_answers, total_questions, accuracy, created_at
        FROM game_results
        ORDER BY created_at DESC, id ASC
        LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Record, 0, limit)
	for rows.Next() {
		var (
			r  Record
			ms int64
		)
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Attempt, &r.GameID, &r.GameType, &r.Title, &r.Score, &r.MaxScore,
			&r.TimeSpent, &r.CorrectAnswers, &r.TotalQuestions, &r.Accuracy, &ms); err != nil {
			return nil, err
		}
		r.CreatedAt = time.UnixMilli(ms).UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

// Summary aggregates per game type, ordered by type.
func (s *Store) Summary(ctx context.Context) ([]TypeSummary, error) {
	rows, err := s.db.query(ctx, `
        SELECT game_type, COUNT(1), AVG(accuracy), AVG(time_spent), MAX(score)
        FROM game_results
        GROUP BY game_type
        ORDER BY game_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TypeSummary
	for rows.Next() {
		var t TypeSummary
		if err := rows.Scan(&t.GameType, &t.Plays, &t.AvgAccuracy, &t.AvgTimeSpent, &t.BestScore); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
