package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/geoquiz/internal/geo"
)

// datasetRepo implements DatasetRepo over SQLite.
type datasetRepo struct {
	db *sql.DB
}

func (r *datasetRepo) Save(ctx context.Context, ds *geo.Dataset) error {
	if ds.ID == "" {
		ds.ID = uuid.NewString()
	}
	ds.Touch(time.Now())
	return putDataset(ctx, r.db, ds)
}

func (r *datasetRepo) Get(ctx context.Context, id string) (*geo.Dataset, error) {
	query, args := builder().Select(columnNames(DatasetsColumns)...).
		From(entsql.Table(DatasetsTable.Name)).
		Where(entsql.EQ("id", id)).
		Query()

	ds, err := scanDataset(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("dataset %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query dataset: %w", err)
	}
	return ds, nil
}

func (r *datasetRepo) List(ctx context.Context) ([]*geo.Dataset, error) {
	return listDatasets(ctx, r.db)
}

func (r *datasetRepo) Delete(ctx context.Context, id string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		query, args := builder().Delete(DatasetsTable.Name).Where(entsql.EQ("id", id)).Query()
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("delete dataset: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("dataset %s: %w", id, ErrNotFound)
		}

		query, args = builder().Delete(QuizzesTable.Name).Where(entsql.EQ("dataset_id", id)).Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete quizzes of dataset: %w", err)
		}
		return nil
	})
}

// putDataset upserts ds as is, keeping its ID and timestamps.
func putDataset(ctx context.Context, db execQuerier, ds *geo.Dataset) error {
	if err := validateDataset(ds); err != nil {
		return err
	}

	geojson, err := json.Marshal(ds.GeoJSON)
	if err != nil {
		return fmt.Errorf("marshal geojson: %w", err)
	}
	var flags any
	if len(ds.Flags) > 0 {
		b, err := json.Marshal(ds.Flags)
		if err != nil {
			return fmt.Errorf("marshal flags: %w", err)
		}
		flags = string(b)
	}

	query, args := builder().Insert(DatasetsTable.Name).
		Columns(columnNames(DatasetsColumns)...).
		Values(ds.ID, ds.Name, nullString(ds.FolderID), string(geojson), ds.IDKey, ds.LabelKey, flags, ds.CreatedAt, ds.UpdatedAt).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save dataset: %w", err)
	}
	return nil
}

func validateDataset(ds *geo.Dataset) error {
	switch {
	case ds.ID == "":
		return fmt.Errorf("dataset has no id: %w", ErrInvalidDataset)
	case ds.IDKey == "" || ds.LabelKey == "":
		return fmt.Errorf("dataset %s needs idKey and labelKey: %w", ds.ID, ErrInvalidDataset)
	case ds.GeoJSON.Type == "" && ds.GeoJSON.Features == nil:
		return fmt.Errorf("dataset %s has no geojson: %w", ds.ID, ErrInvalidDataset)
	}
	return nil
}

func listDatasets(ctx context.Context, db execQuerier) ([]*geo.Dataset, error) {
	query, args := builder().Select(columnNames(DatasetsColumns)...).
		From(entsql.Table(DatasetsTable.Name)).
		OrderBy(entsql.Desc("updated_at"), "id").
		Query()

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query datasets: %w", err)
	}
	defer rows.Close()

	var out []*geo.Dataset
	for rows.Next() {
		ds, err := scanDataset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dataset: %w", err)
		}
		out = append(out, ds)
	}
	return out, rows.Err()
}

func scanDataset(sc scanner) (*geo.Dataset, error) {
	var (
		ds      geo.Dataset
		folder  sql.NullString
		geojson []byte
		flags   []byte
	)
	err := sc.Scan(&ds.ID, &ds.Name, &folder, &geojson, &ds.IDKey, &ds.LabelKey, &flags, &ds.CreatedAt, &ds.UpdatedAt)
	if err != nil {
		return nil, err
	}
	ds.FolderID = folder.String

	// Numbers stay json.Number so region IDs keep their source text.
	dec := json.NewDecoder(bytes.NewReader(geojson))
	dec.UseNumber()
	if err := dec.Decode(&ds.GeoJSON); err != nil {
		return nil, fmt.Errorf("decode geojson of %s: %w", ds.ID, err)
	}
	if len(flags) > 0 {
		if err := json.Unmarshal(flags, &ds.Flags); err != nil {
			return nil, fmt.Errorf("decode flags of %s: %w", ds.ID, err)
		}
	}
	return &ds, nil
}
