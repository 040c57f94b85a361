package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/geoquiz/internal/geo"
	"github.com/abhisek/geoquiz/internal/quiz"
)

// BundleVersion is the format version written by ExportQuizBundle.
const BundleVersion = 1

// legacyMigratedKey marks that MigrateLegacy has run.
const legacyMigratedKey = "legacy.migrated"

// Archive is the full export document.
type Archive struct {
	Datasets []*geo.Dataset `json:"datasets"`
	Quizzes  []*quiz.Quiz   `json:"quizzes"`
	Folders  []*Folder      `json:"folders,omitempty"`
}

// QuizBundle is a single quiz exported together with its dataset.
type QuizBundle struct {
	Version    int          `json:"version"`
	ExportedAt int64        `json:"exportedAt"`
	Dataset    *geo.Dataset `json:"dataset"`
	Quiz       *quiz.Quiz   `json:"quiz"`
}

const (
	archiveSchemaURL = "schema://geoquiz-archive.json"
	bundleSchemaURL  = "schema://geoquiz-bundle.json"
)

var documentSchemas = map[string]any{
	archiveSchemaURL: map[string]any{
		"type":     "object",
		"required": []any{"datasets", "quizzes"},
		"properties": map[string]any{
			"datasets": map[string]any{"type": "array", "items": map[string]any{"type": "object"}},
			"quizzes":  map[string]any{"type": "array", "items": map[string]any{"type": "object"}},
			"folders":  map[string]any{"type": "array", "items": map[string]any{"type": "object"}},
		},
	},
	bundleSchemaURL: map[string]any{
		"type":     "object",
		"required": []any{"dataset", "quiz"},
		"properties": map[string]any{
			"version": map[string]any{"type": "integer"},
			"dataset": map[string]any{
				"type":     "object",
				"required": []any{"geojson", "idKey", "labelKey"},
				"properties": map[string]any{
					"geojson":  map[string]any{"type": "object"},
					"idKey":    map[string]any{"type": "string", "minLength": 1},
					"labelKey": map[string]any{"type": "string", "minLength": 1},
				},
			},
			"quiz": map[string]any{"type": "object"},
		},
	},
}

var (
	schemasOnce sync.Once
	schemas     map[string]*jsonschema.Schema
	schemasErr  error
)

func compiledSchemas() (map[string]*jsonschema.Schema, error) {
	schemasOnce.Do(func() {
		c := jsonschema.NewCompiler()
		for url, doc := range documentSchemas {
			if err := c.AddResource(url, doc); err != nil {
				schemasErr = fmt.Errorf("add resource %s: %w", url, err)
				return
			}
		}
		out := make(map[string]*jsonschema.Schema, len(documentSchemas))
		for url := range documentSchemas {
			sch, err := c.Compile(url)
			if err != nil {
				schemasErr = fmt.Errorf("compile %s: %w", url, err)
				return
			}
			out[url] = sch
		}
		schemas = out
	})
	return schemas, schemasErr
}

// decodeDocument validates data against the schema at url and decodes it
// into v. Shape errors wrap ErrInvalidBundle.
func decodeDocument(data []byte, url string, v any) error {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}
	all, err := compiledSchemas()
	if err != nil {
		return fmt.Errorf("compile document schemas: %w", err)
	}
	if err := all[url].Validate(inst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}
	return nil
}

// ExportAll returns every dataset, quiz and folder as indented JSON.
func (s *Store) ExportAll(ctx context.Context) ([]byte, error) {
	datasets, err := listDatasets(ctx, s.db)
	if err != nil {
		return nil, err
	}
	quizzes, err := listQuizzes(ctx, s.db)
	if err != nil {
		return nil, err
	}
	folders, err := s.FolderRepo().List(ctx, "")
	if err != nil {
		return nil, err
	}

	a := Archive{
		Datasets: datasets,
		Quizzes:  quizzes,
		Folders:  folders,
	}
	if a.Datasets == nil {
		a.Datasets = []*geo.Dataset{}
	}
	if a.Quizzes == nil {
		a.Quizzes = []*quiz.Quiz{}
	}

	out, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal archive: %w", err)
	}
	return out, nil
}

// ImportAll replaces every dataset, quiz and folder with the contents of an
// ExportAll document. Nothing changes when the document is rejected.
func (s *Store) ImportAll(ctx context.Context, data []byte) error {
	var a Archive
	if err := decodeDocument(data, archiveSchemaURL, &a); err != nil {
		return err
	}

	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, t := range []string{DatasetsTable.Name, QuizzesTable.Name, FoldersTable.Name} {
			query, args := builder().Delete(t).Query()
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("clear %s: %w", t, err)
			}
		}
		if err := putArchive(ctx, tx, &a); err != nil {
			return err
		}
		return setMeta(ctx, tx, legacyMigratedKey, "1")
	})
}

func putArchive(ctx context.Context, tx *sql.Tx, a *Archive) error {
	for _, ds := range a.Datasets {
		if err := putDataset(ctx, tx, ds); err != nil {
			return err
		}
	}
	for _, q := range a.Quizzes {
		if err := putQuiz(ctx, tx, q); err != nil {
			return err
		}
	}
	for _, f := range a.Folders {
		if err := putFolder(ctx, tx, f); err != nil {
			return err
		}
	}
	return nil
}

// ExportQuizBundle returns the quiz and its dataset as a shareable document.
func (s *Store) ExportQuizBundle(ctx context.Context, quizID string) ([]byte, error) {
	q, err := s.QuizRepo().Get(ctx, quizID)
	if err != nil {
		return nil, err
	}
	ds, err := s.DatasetRepo().Get(ctx, q.DatasetID)
	if err != nil {
		return nil, err
	}

	out, err := json.MarshalIndent(QuizBundle{
		Version:    BundleVersion,
		ExportedAt: time.Now().UnixMilli(),
		Dataset:    ds,
		Quiz:       q,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal bundle: %w", err)
	}
	return out, nil
}

// ImportQuizBundle stores copies of the bundled dataset and quiz under fresh
// IDs and returns them. The copied quiz points at the copied dataset.
func (s *Store) ImportQuizBundle(ctx context.Context, data []byte) (*QuizBundle, error) {
	var b QuizBundle
	if err := decodeDocument(data, bundleSchemaURL, &b); err != nil {
		return nil, err
	}

	now := time.Now().UnixMilli()
	ds := *b.Dataset
	ds.ID = uuid.NewString()
	ds.CreatedAt, ds.UpdatedAt = now, now

	q := *b.Quiz
	q.ID = uuid.NewString()
	q.DatasetID = ds.ID
	q.CreatedAt, q.UpdatedAt = now, now
	if q.Type == "" {
		q.Type = quiz.TypeMapClick
	}
	if _, err := quiz.ParseType(string(q.Type)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}

	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := putDataset(ctx, tx, &ds); err != nil {
			return err
		}
		return putQuiz(ctx, tx, &q)
	})
	if err != nil {
		return nil, err
	}
	return &QuizBundle{Version: b.Version, ExportedAt: b.ExportedAt, Dataset: &ds, Quiz: &q}, nil
}

// MigrateLegacy imports a legacy {datasets, quizzes, folders} document once.
// Later calls are no-ops returning false. A malformed document still marks
// the migration as done and returns an error wrapping ErrInvalidBundle.
func (s *Store) MigrateLegacy(ctx context.Context, data []byte) (bool, error) {
	if _, done, err := getMeta(ctx, s.db, legacyMigratedKey); err != nil {
		return false, err
	} else if done {
		return false, nil
	}

	var a Archive
	if err := decodeDocument(data, archiveSchemaURL, &a); err != nil {
		if merr := setMeta(ctx, s.db, legacyMigratedKey, "1"); merr != nil {
			return false, merr
		}
		return false, fmt.Errorf("legacy data: %w", err)
	}

	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := putArchive(ctx, tx, &a); err != nil {
			return err
		}
		return setMeta(ctx, tx, legacyMigratedKey, "1")
	})
	if err != nil {
		return false, fmt.Errorf("migrate legacy data: %w", err)
	}
	return true, nil
}

func getMeta(ctx context.Context, db execQuerier, key string) (string, bool, error) {
	query, args := builder().Select("value").
		From(entsql.Table(MetaTable.Name)).
		Where(entsql.EQ("key", key)).
		Query()

	var v string
	err := db.QueryRowContext(ctx, query, args...).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read meta %s: %w", key, err)
	}
	return v, true, nil
}

func setMeta(ctx context.Context, db execQuerier, key, value string) error {
	query, args := builder().Insert(MetaTable.Name).
		Columns("key", "value").
		Values(key, value).
		OnConflict(entsql.ConflictColumns("key"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("write meta %s: %w", key, err)
	}
	return nil
}
