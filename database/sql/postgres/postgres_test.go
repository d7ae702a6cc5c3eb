package postgres

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/omniscale/osmcsv/database"
	"github.com/omniscale/osmcsv/shape"
)

func TestQueryBuilder(t *testing.T) {
	qb := &QueryBuilder{}
	for _, tc := range []struct {
		sql      string
		expected string
	}{
		{qb.DropTableSQL(&shape.NodesTable), `DROP TABLE IF EXISTS "nodes"`},
		{qb.InsertSQL(&shape.WaysTable), `COPY "ways" ("id", "user", "uid", "version", "changeset", "timestamp") FROM STDIN`},
		{qb.SelectSQL(&shape.WayNodesTable, 5), `SELECT "id", "node_id", "position" FROM "ways_nodes" ORDER BY "id" LIMIT 5`},
		{qb.CreateTableSQL(&shape.NodeTagsTable), `CREATE TABLE "nodes_tags" (
    "id" BIGINT NOT NULL,
    "key" TEXT,
    "value" TEXT,
    "type" TEXT
)`},
	} {
		if tc.sql != tc.expected {
			t.Errorf("expected\n%s\ngot\n%s", tc.expected, tc.sql)
		}
	}

	qb = &QueryBuilder{Schema: "osm"}
	if sql := qb.DropTableSQL(&shape.NodesTable); sql != `DROP TABLE IF EXISTS "osm"."nodes"` {
		t.Error("unexpected sql", sql)
	}
	if sql := qb.InsertSQL(&shape.WayNodesTable); sql != `COPY "osm"."ways_nodes" ("id", "node_id", "position") FROM STDIN` {
		t.Error("unexpected sql", sql)
	}
}

func TestConnectionParams(t *testing.T) {
	params, schema := stripSchemaFromConnectionParams("dbname=osm host=localhost schema=import")
	if params != "dbname=osm host=localhost" || schema != "import" {
		t.Errorf("unexpected params %q schema %q", params, schema)
	}

	os.Unsetenv("PGSSLMODE")
	if params := disableDefaultSslOnLocalhost("host=localhost dbname=osm"); params != "host=localhost dbname=osm sslmode=disable" {
		t.Error("unexpected params", params)
	}
	if params := disableDefaultSslOnLocalhost("host=db.example.org dbname=osm"); params != "host=db.example.org dbname=osm" {
		t.Error("unexpected params", params)
	}
	if params := disableDefaultSslOnLocalhost("host=localhost sslmode=require"); params != "host=localhost sslmode=require" {
		t.Error("unexpected params", params)
	}
}

// TestLoad needs a PostgreSQL database, e.g.
// OSMCSV_TEST_CONNECTION=postgres://localhost/osmcsv_test
func TestLoad(t *testing.T) {
	conn := os.Getenv("OSMCSV_TEST_CONNECTION")
	if conn == "" {
		t.Skip("OSMCSV_TEST_CONNECTION not set")
	}

	dir, err := ioutil.TempDir("", "osmcsv_test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	for _, table := range shape.Tables {
		content := ""
		for i, col := range table.Header() {
			if i > 0 {
				content += ","
			}
			content += col
		}
		content += "\n"
		switch table {
		case &shape.NodesTable:
			content += "1,-3.7,-38.5,alice,100,2,10,2016-01-01T00:00:00Z\n"
		case &shape.NodeTagsTable:
			content += "1,street,b'Pra\\xc3\\xa7a do Ferreira',addr\n"
		}
		if err := ioutil.WriteFile(filepath.Join(dir, table.Name+".csv"), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	db, err := database.Open(database.Config{ConnectionParams: conn})
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if err := db.Init(); err != nil {
		t.Fatal(err)
	}
	rows, err := database.Load(db, dir)
	if err != nil {
		t.Fatal(err)
	}
	if rows["nodes"] != 1 || rows["nodes_tags"] != 1 || rows["ways"] != 0 {
		t.Error("unexpected rows", rows)
	}
	sample, err := db.Sample(&shape.NodeTagsTable, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(sample) != 1 || sample[0][2] != "Praça do Ferreira" {
		t.Error("unexpected tags", sample)
	}
}
