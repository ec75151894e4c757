package storage

import (
	"context"
	"database/sql/driver"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hmeyer/daypeak/internal/domain/models"
)

func TestSave_UpsertsRow(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer func() { _ = db.Close() }()
	repo := NewSnapshotRepository(db)

	mock.ExpectExec("INSERT INTO tracker_snapshots").
		WithArgs("Max sensor", "1.5", "sensor.a", "9.5", "sensor.b", "9.5", "sensor.b").
		WillReturnResult(sqlmock.NewResult(0, 1))

	snap := models.Snapshot{
		MinValue: "1.5", MinEntityID: "sensor.a",
		MaxValue: "9.5", MaxEntityID: "sensor.b",
		Last: "9.5", LastEntityID: "sensor.b",
	}
	if err := repo.Save(context.Background(), "Max sensor", snap); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSave_EmptyFieldsBecomeNull(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer func() { _ = db.Close() }()
	repo := NewSnapshotRepository(db)

	// After a reset the three entity ids are cleared and must persist as NULL.
	mock.ExpectExec("INSERT INTO tracker_snapshots").
		WithArgs("Max sensor", "4", nil, "4", nil, "4", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	snap := models.Snapshot{MinValue: "4", MaxValue: "4", Last: "4"}
	if err := repo.Save(context.Background(), "Max sensor", snap); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLoad_TableDriven(t *testing.T) {
	cols := []string{"min_value", "min_entity_id", "max_value", "max_entity_id", "last", "last_entity_id"}

	cases := []struct {
		name    string
		rows    *sqlmock.Rows
		want    *models.Snapshot
		wantNil bool
	}{
		{
			name: "full row",
			rows: sqlmock.NewRows(cols).AddRow("2.5", "sensor.a", "7.5", "sensor.b", "4.0", "sensor.a"),
			want: &models.Snapshot{
				MinValue: "2.5", MinEntityID: "sensor.a",
				MaxValue: "7.5", MaxEntityID: "sensor.b",
				Last: "4.0", LastEntityID: "sensor.a",
			},
		},
		{
			name: "null fields restore as unset",
			rows: sqlmock.NewRows(cols).AddRow("2.5", "sensor.a", nil, nil, "4.0", nil),
			want: &models.Snapshot{MinValue: "2.5", MinEntityID: "sensor.a", Last: "4.0"},
		},
		{
			name:    "no row",
			rows:    sqlmock.NewRows(cols),
			wantNil: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
			if err != nil {
				t.Fatalf("sqlmock: %v", err)
			}
			defer func() { _ = db.Close() }()
			repo := NewSnapshotRepository(db)

			mock.ExpectQuery("SELECT min_value, min_entity_id").
				WithArgs(driver.Value("Max sensor")).
				WillReturnRows(tc.rows)

			got, err := repo.Load(context.Background(), "Max sensor")
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if tc.wantNil {
				if got != nil {
					t.Fatalf("want nil, got %+v", got)
				}
				return
			}
			if got == nil || *got != *tc.want {
				t.Fatalf("want %+v got %+v", tc.want, got)
			}
		})
	}
}

func TestInitSchema(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer func() { _ = db.Close() }()
	repo := NewSnapshotRepository(db)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS tracker_snapshots").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.InitSchema(context.Background()); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
