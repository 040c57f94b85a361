package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// DatasetsColumns holds the columns for the "datasets" table.
	DatasetsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "name", Type: field.TypeString},
		{Name: "folder_id", Type: field.TypeString, Nullable: true},
		{Name: "geojson", Type: field.TypeJSON},
		{Name: "id_key", Type: field.TypeString},
		{Name: "label_key", Type: field.TypeString},
		{Name: "flags", Type: field.TypeJSON, Nullable: true},
		{Name: "created_at", Type: field.TypeInt64},
		{Name: "updated_at", Type: field.TypeInt64},
	}
	// DatasetsTable holds the schema information for the "datasets" table.
	DatasetsTable = &schema.Table{
		Name:       "datasets",
		Columns:    DatasetsColumns,
		PrimaryKey: []*schema.Column{DatasetsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "dataset_updated_at", Columns: []*schema.Column{DatasetsColumns[8]}},
		},
	}

	// QuizzesColumns holds the columns for the "quizzes" table.
	QuizzesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "name", Type: field.TypeString},
		{Name: "dataset_id", Type: field.TypeString},
		{Name: "folder_id", Type: field.TypeString, Nullable: true},
		{Name: "type", Type: field.TypeString},
		{Name: "image_map", Type: field.TypeJSON, Nullable: true},
		{Name: "settings", Type: field.TypeJSON},
		{Name: "pool", Type: field.TypeJSON, Nullable: true},
		{Name: "created_at", Type: field.TypeInt64},
		{Name: "updated_at", Type: field.TypeInt64},
	}
	// QuizzesTable holds the schema information for the "quizzes" table.
	QuizzesTable = &schema.Table{
		Name:       "quizzes",
		Columns:    QuizzesColumns,
		PrimaryKey: []*schema.Column{QuizzesColumns[0]},
		Indexes: []*schema.Index{
			{Name: "quiz_dataset_id", Columns: []*schema.Column{QuizzesColumns[2]}},
			{Name: "quiz_updated_at", Columns: []*schema.Column{QuizzesColumns[9]}},
		},
	}

	// FoldersColumns holds the columns for the "folders" table.
	FoldersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "name", Type: field.TypeString},
		{Name: "kind", Type: field.TypeString},
		{Name: "parent_id", Type: field.TypeString, Nullable: true},
		{Name: "created_at", Type: field.TypeInt64},
		{Name: "updated_at", Type: field.TypeInt64},
	}
	// FoldersTable holds the schema information for the "folders" table.
	FoldersTable = &schema.Table{
		Name:       "folders",
		Columns:    FoldersColumns,
		PrimaryKey: []*schema.Column{FoldersColumns[0]},
		Indexes: []*schema.Index{
			{Name: "folder_parent_id", Columns: []*schema.Column{FoldersColumns[3]}},
		},
	}

	// PlayEventsColumns holds the columns for the "play_events" table.
	PlayEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeInt64},
		{Name: "session_id", Type: field.TypeString},
		{Name: "quiz_id", Type: field.TypeString},
		{Name: "action", Type: field.TypeString},
		{Name: "question_index", Type: field.TypeInt, Default: 0},
		{Name: "total", Type: field.TypeInt, Default: 0},
		{Name: "target_id", Type: field.TypeString, Nullable: true},
		{Name: "chosen_id", Type: field.TypeString, Nullable: true},
		{Name: "correct", Type: field.TypeBool, Default: false},
		{Name: "score", Type: field.TypeInt, Default: 0},
	}
	// PlayEventsTable holds the schema information for the "play_events" table.
	PlayEventsTable = &schema.Table{
		Name:       "play_events",
		Columns:    PlayEventsColumns,
		PrimaryKey: []*schema.Column{PlayEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "playevent_session_id", Columns: []*schema.Column{PlayEventsColumns[3]}},
		},
	}

	// MetaColumns holds the columns for the "meta" table.
	MetaColumns = []*schema.Column{
		{Name: "key", Type: field.TypeString},
		{Name: "value", Type: field.TypeString},
	}
	// MetaTable holds the schema information for the "meta" table.
	MetaTable = &schema.Table{
		Name:       "meta",
		Columns:    MetaColumns,
		PrimaryKey: []*schema.Column{MetaColumns[0]},
	}

	// tables holds all the tables in the schema.
	tables = []*schema.Table{
		DatasetsTable,
		QuizzesTable,
		FoldersTable,
		PlayEventsTable,
		MetaTable,
	}
)

// columnNames lists the names of cols in order, for SELECT and INSERT.
func columnNames(cols []*schema.Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}
