package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// folderRepo implements FolderRepo over SQLite.
type folderRepo struct {
	db *sql.DB
}

func (r *folderRepo) Save(ctx context.Context, f *Folder) error {
	if _, err := ParseFolderKind(string(f.Kind)); err != nil {
		return fmt.Errorf("save folder: %w", err)
	}
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.ParentID == f.ID {
		return fmt.Errorf("save folder: folder cannot be its own parent")
	}
	now := time.Now().UnixMilli()
	if f.CreatedAt == 0 {
		f.CreatedAt = now
	}
	f.UpdatedAt = now
	return putFolder(ctx, r.db, f)
}

func (r *folderRepo) Get(ctx context.Context, id string) (*Folder, error) {
	return getFolder(ctx, r.db, id)
}

func (r *folderRepo) List(ctx context.Context, kind FolderKind) ([]*Folder, error) {
	sel := builder().Select(columnNames(FoldersColumns)...).
		From(entsql.Table(FoldersTable.Name)).
		OrderBy(entsql.Desc("updated_at"), "id")
	if kind != "" {
		sel = sel.Where(entsql.EQ("kind", string(kind)))
	}
	return listFolders(ctx, r.db, sel)
}

func (r *folderRepo) Delete(ctx context.Context, id string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		f, err := getFolder(ctx, tx, id)
		if err != nil {
			return err
		}

		now := time.Now().UnixMilli()
		query, args := builder().Delete(FoldersTable.Name).Where(entsql.EQ("id", id)).Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete folder: %w", err)
		}

		if err := reparent(ctx, tx, FoldersTable.Name, "parent_id", id, f.ParentID, now); err != nil {
			return fmt.Errorf("move child folders: %w", err)
		}

		items := QuizzesTable.Name
		if f.Kind == FolderKindDataset {
			items = DatasetsTable.Name
		}
		if err := reparent(ctx, tx, items, "folder_id", id, f.ParentID, now); err != nil {
			return fmt.Errorf("move %s: %w", items, err)
		}
		return nil
	})
}

// reparent points every row of table whose column equals from at to,
// clearing the column when to is empty.
func reparent(ctx context.Context, tx *sql.Tx, table, column, from, to string, now int64) error {
	upd := builder().Update(table).Set("updated_at", now).Where(entsql.EQ(column, from))
	if to == "" {
		upd = upd.SetNull(column)
	} else {
		upd = upd.Set(column, to)
	}
	query, args := upd.Query()
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

func putFolder(ctx context.Context, db execQuerier, f *Folder) error {
	query, args := builder().Insert(FoldersTable.Name).
		Columns(columnNames(FoldersColumns)...).
		Values(f.ID, f.Name, string(f.Kind), nullString(f.ParentID), f.CreatedAt, f.UpdatedAt).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save folder: %w", err)
	}
	return nil
}

func getFolder(ctx context.Context, db execQuerier, id string) (*Folder, error) {
	query, args := builder().Select(columnNames(FoldersColumns)...).
		From(entsql.Table(FoldersTable.Name)).
		Where(entsql.EQ("id", id)).
		Query()

	f, err := scanFolder(db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("folder %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query folder: %w", err)
	}
	return f, nil
}

func listFolders(ctx context.Context, db execQuerier, sel *entsql.Selector) ([]*Folder, error) {
	query, args := sel.Query()
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query folders: %w", err)
	}
	defer rows.Close()

	var out []*Folder
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func scanFolder(sc scanner) (*Folder, error) {
	var (
		f      Folder
		kind   string
		parent sql.NullString
	)
	if err := sc.Scan(&f.ID, &f.Name, &kind, &parent, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	f.Kind = FolderKind(kind)
	f.ParentID = parent.String
	return &f, nil
}
