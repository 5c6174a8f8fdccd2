package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "title").
		From("leagues").
		Where(Eq("sport_id", int64(3)), IsNull("deleted_at")).
		OrderBy("id").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, title FROM leagues WHERE sport_id = $1 AND deleted_at IS NULL ORDER BY id LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != int64(3) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_Comparisons(t *testing.T) {
	query, args, err := Select("id").
		From("games").
		Where(Lt("start_time", "2026-01-01"), Gte("odds", 1.5)).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id FROM games WHERE start_time < $1 AND odds >= $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("sports").
		Columns("external_key", "name").
		Values("soccer_epl", "Soccer").
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO sports (external_key, name) VALUES ($1, $2) RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "soccer_epl" || args[1] != "Soccer" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("games").
		Set("finished", true).
		SetExpr("updated_at", "NOW()").
		Where(Eq("id", int64(7))).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE games SET finished = $1, updated_at = NOW() WHERE id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != true || args[1] != int64(7) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("bet_events").
		Where(Lt("created_at", "2026-01-01")).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}

	wantQuery := "DELETE FROM bet_events WHERE created_at < $1"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder_RequiresWhere(t *testing.T) {
	if _, _, err := DeleteFrom("bet_events").ToSQL(); err == nil {
		t.Fatal("expected error for delete without conditions")
	}
}

func TestInsertModel(t *testing.T) {
	type row struct {
		ExternalKey string `db:"external_key"`
		Name        string `db:"name"`
		skipped     string `db:"nope"`
		NoTag       string
	}

	query, args, err := InsertModel("sports", row{ExternalKey: "k", Name: "n", skipped: "x"}, "")
	if err != nil {
		t.Fatalf("build insert from model: %v", err)
	}

	wantQuery := "INSERT INTO sports (external_key, name) VALUES ($1, $2)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}
