package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/geoquiz/internal/quiz"
)

// quizRepo implements QuizRepo over SQLite.
type quizRepo struct {
	db *sql.DB
}

func (r *quizRepo) Save(ctx context.Context, q *quiz.Quiz) error {
	if _, err := quiz.ParseType(string(q.Type)); err != nil {
		return fmt.Errorf("save quiz: %w", err)
	}
	if q.DatasetID == "" {
		return fmt.Errorf("save quiz: no dataset")
	}
	if _, err := (&datasetRepo{db: r.db}).Get(ctx, q.DatasetID); err != nil {
		return fmt.Errorf("save quiz: %w", err)
	}

	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	q.Touch(time.Now())
	return putQuiz(ctx, r.db, q)
}

func (r *quizRepo) Get(ctx context.Context, id string) (*quiz.Quiz, error) {
	query, args := builder().Select(columnNames(QuizzesColumns)...).
		From(entsql.Table(QuizzesTable.Name)).
		Where(entsql.EQ("id", id)).
		Query()

	q, err := scanQuiz(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("quiz %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query quiz: %w", err)
	}
	return q, nil
}

func (r *quizRepo) List(ctx context.Context) ([]*quiz.Quiz, error) {
	return listQuizzes(ctx, r.db)
}

func (r *quizRepo) Delete(ctx context.Context, id string) error {
	query, args := builder().Delete(QuizzesTable.Name).Where(entsql.EQ("id", id)).Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("quiz %s: %w", id, ErrNotFound)
	}
	return nil
}

// putQuiz upserts q as is, keeping its ID and timestamps.
func putQuiz(ctx context.Context, db execQuerier, q *quiz.Quiz) error {
	if q.ID == "" {
		return fmt.Errorf("save quiz: no id")
	}

	settings, err := json.Marshal(q.Settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	imageMap, err := optionalJSON(len(q.ImageMap) > 0, q.ImageMap)
	if err != nil {
		return fmt.Errorf("marshal image map: %w", err)
	}
	pool, err := optionalJSON(len(q.Pool) > 0, q.Pool)
	if err != nil {
		return fmt.Errorf("marshal pool: %w", err)
	}

	query, args := builder().Insert(QuizzesTable.Name).
		Columns(columnNames(QuizzesColumns)...).
		Values(q.ID, q.Name, q.DatasetID, nullString(q.FolderID), string(q.Type), imageMap, string(settings), pool, q.CreatedAt, q.UpdatedAt).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save quiz: %w", err)
	}
	return nil
}

// optionalJSON encodes v as a JSON string, or NULL when present is false.
func optionalJSON(present bool, v any) (any, error) {
	if !present {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func listQuizzes(ctx context.Context, db execQuerier) ([]*quiz.Quiz, error) {
	query, args := builder().Select(columnNames(QuizzesColumns)...).
		From(entsql.Table(QuizzesTable.Name)).
		OrderBy(entsql.Desc("updated_at"), "id").
		Query()

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query quizzes: %w", err)
	}
	defer rows.Close()

	var out []*quiz.Quiz
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func scanQuiz(sc scanner) (*quiz.Quiz, error) {
	var (
		q        quiz.Quiz
		folder   sql.NullString
		typ      string
		imageMap []byte
		settings []byte
		pool     []byte
	)
	err := sc.Scan(&q.ID, &q.Name, &q.DatasetID, &folder, &typ, &imageMap, &settings, &pool, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	q.FolderID = folder.String
	q.Type = quiz.Type(typ)

	if err := json.Unmarshal(settings, &q.Settings); err != nil {
		return nil, fmt.Errorf("decode settings of %s: %w", q.ID, err)
	}
	if len(imageMap) > 0 {
		if err := json.Unmarshal(imageMap, &q.ImageMap); err != nil {
			return nil, fmt.Errorf("decode image map of %s: %w", q.ID, err)
		}
	}
	if len(pool) > 0 {
		if err := json.Unmarshal(pool, &q.Pool); err != nil {
			return nil, fmt.Errorf("decode pool of %s: %w", q.ID, err)
		}
	}
	return &q, nil
}
