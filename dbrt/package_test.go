package dbrt_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	. "gopkg.in/check.v1"

	"dao-generator/dbrt"
)

// Hook up gocheck into the "go test" runner.
func TestPackage(t *testing.T) { TestingT(t) }

type PackageSuite struct {
	db *dbrt.DB
}

var _ = Suite(&PackageSuite{})

func (s *PackageSuite) SetUpTest(c *C) {
	db, err := sql.Open("sqlite3", ":memory:")
	c.Assert(err, IsNil)
	// One connection keeps a single in-memory database.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
CREATE TABLE person (
	id integer PRIMARY KEY,
	name text NOT NULL,
	score real,
	avatar blob,
	active integer,
	born text,
	seen integer
);
INSERT INTO person VALUES (1, 'Fred', 1.5, x'0102', 1, '2020-01-02T03:04:05Z', 1577934245);
INSERT INTO person VALUES (2, 'Mary', NULL, NULL, 0, 'not a time', NULL);
`)
	c.Assert(err, IsNil)

	s.db = dbrt.New(db)
}

func (s *PackageSuite) TearDownTest(c *C) {
	c.Assert(s.db.InUse(), Equals, int64(0))
	c.Assert(s.db.SQL().Close(), IsNil)
}

func (s *PackageSuite) query(c *C, ctx context.Context, q string, bind func(*dbrt.Statement)) *dbrt.Cursor {
	stmt := s.db.Acquire(q)
	defer stmt.Release()

	if bind != nil {
		bind(stmt)
	}

	cur, err := s.db.Query(ctx, stmt)
	c.Assert(err, IsNil)

	return cur
}

func (s *PackageSuite) TestCursorReads(c *C) {
	cur := s.query(c, context.Background(), "SELECT * FROM person WHERE id = ?", func(st *dbrt.Statement) {
		st.BindInt64(1, 1)
	})
	defer cur.Close()

	c.Assert(cur.Count(), Equals, 1)
	c.Assert(cur.Position(), Equals, -1)
	c.Assert(cur.MoveToFirst(), Equals, true)

	c.Check(cur.Int64(cur.ColumnIndex("id")), Equals, int64(1))
	c.Check(cur.String(cur.ColumnIndex("NAME")), Equals, "Fred")
	c.Check(cur.Float64(cur.ColumnIndex("score")), Equals, 1.5)
	c.Check(cur.Bytes(cur.ColumnIndex("avatar")), DeepEquals, []byte{1, 2})
	c.Check(cur.Bool(cur.ColumnIndex("active")), Equals, true)
	c.Check(cur.ColumnIndex("missing"), Equals, -1)

	born, err := cur.TextTime(cur.ColumnIndex("born"))
	c.Assert(err, IsNil)
	c.Check(born.Equal(time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)), Equals, true)
	c.Check(cur.UnixTime(cur.ColumnIndex("seen")).Equal(born), Equals, true)
}

func (s *PackageSuite) TestCursorNulls(c *C) {
	cur := s.query(c, context.Background(), "SELECT score, avatar, born, seen FROM person WHERE id = 2", nil)
	defer cur.Close()

	c.Assert(cur.MoveToNext(), Equals, true)
	c.Check(cur.IsNull(0), Equals, true)
	c.Check(cur.Float64(0), Equals, 0.0)
	c.Check(cur.Bytes(1), IsNil)
	c.Check(cur.UnixTime(3).IsZero(), Equals, true)

	_, err := cur.TextTime(2)
	c.Check(err, ErrorMatches, `column 2: cannot parse "not a time" as time`)
}

func (s *PackageSuite) TestCursorMovement(c *C) {
	cur := s.query(c, context.Background(), "SELECT id FROM person ORDER BY id", nil)

	c.Assert(cur.MoveToLast(), Equals, true)
	c.Check(cur.Position()+1, Equals, 2)
	c.Check(cur.MoveToPosition(-1), Equals, false)

	var ids []int64
	for cur.MoveToNext() {
		ids = append(ids, cur.Int64(0))
	}

	c.Check(ids, DeepEquals, []int64{1, 2})
	c.Check(cur.MoveToNext(), Equals, false)
	c.Check(cur.Position(), Equals, 2)

	cur.Close()
	c.Check(cur.Closed(), Equals, true)
	c.Check(cur.MoveToFirst(), Equals, false)
}

func (s *PackageSuite) TestEmptyCursor(c *C) {
	cur := s.query(c, context.Background(), "SELECT id FROM person WHERE id < 0", nil)
	defer cur.Close()

	c.Check(cur.MoveToFirst(), Equals, false)
	c.Check(cur.MoveToLast(), Equals, false)
	c.Check(cur.Position(), Equals, -1)
	c.Check(cur.Int64(0), Equals, int64(0))
}

func (s *PackageSuite) TestExecute(c *C) {
	ctx := context.Background()

	stmt := s.db.Acquire("INSERT INTO person (name, born) VALUES (?, ?)")
	stmt.BindString(1, "James")
	stmt.BindTextTime(2, time.Date(2021, 5, 6, 7, 8, 9, 0, time.FixedZone("X", 3600)))
	id, err := stmt.ExecuteInsert(ctx)
	stmt.Release()
	c.Assert(err, IsNil)
	c.Check(id, Equals, int64(3))

	stmt = s.db.Acquire("UPDATE person SET score = ? WHERE id > ?")
	stmt.BindNull(1)
	stmt.BindInt64(2, 0)
	c.Check(stmt.Args(), DeepEquals, []any{nil, int64(0)})
	n, err := stmt.ExecuteUpdateDelete(ctx)
	stmt.Release()
	c.Assert(err, IsNil)
	c.Check(n, Equals, int64(3))

	cur := s.query(c, ctx, "SELECT born FROM person WHERE id = 3", nil)
	cur.MoveToFirst()
	c.Check(cur.String(0), Equals, "2021-05-06T06:08:09Z")
}

func (s *PackageSuite) TestReleasedStatement(c *C) {
	stmt := s.db.Acquire("SELECT 1")
	c.Check(s.db.InUse(), Equals, int64(1))

	stmt.Release()
	stmt.Release()
	c.Check(s.db.InUse(), Equals, int64(0))

	_, err := stmt.ExecuteUpdateDelete(context.Background())
	c.Check(err, Equals, dbrt.ErrReleased)
}

func (s *PackageSuite) TestStaleReleaseKeepsNewStatement(c *C) {
	old := s.db.Acquire("SELECT 1")
	old.Release()

	fresh := s.db.Acquire("SELECT 2")
	old.Release()
	c.Check(s.db.InUse(), Equals, int64(1))

	cur, err := s.db.Query(context.Background(), fresh)
	c.Assert(err, IsNil)
	c.Check(cur.MoveToFirst(), Equals, true)
	c.Check(cur.Int64(0), Equals, int64(2))

	fresh.Release()
	c.Check(s.db.InUse(), Equals, int64(0))
}

func (s *PackageSuite) countPeople(c *C) int64 {
	cur := s.query(c, context.Background(), "SELECT count(*) FROM person", nil)
	cur.MoveToFirst()

	return cur.Int64(0)
}

func (s *PackageSuite) insert(c *C, ctx context.Context, name string) {
	stmt := s.db.Acquire("INSERT INTO person (name) VALUES (?)")
	defer stmt.Release()

	stmt.BindString(1, name)
	_, err := stmt.ExecuteInsert(ctx)
	c.Assert(err, IsNil)
}

func (s *PackageSuite) TestTransactionCommit(c *C) {
	ctx, err := s.db.BeginTransaction(context.Background())
	c.Assert(err, IsNil)
	c.Check(s.db.InTransaction(ctx), Equals, true)

	s.insert(c, ctx, "Tx")
	s.db.SetTransactionSuccessful(ctx)
	c.Assert(s.db.EndTransaction(ctx), IsNil)

	c.Check(s.countPeople(c), Equals, int64(3))
	c.Check(s.db.InTransaction(ctx), Equals, false)
	c.Check(s.db.EndTransaction(ctx), Equals, dbrt.ErrNoTransaction)
}

func (s *PackageSuite) TestTransactionRollback(c *C) {
	ctx, err := s.db.BeginTransaction(context.Background())
	c.Assert(err, IsNil)

	s.insert(c, ctx, "Tx")
	c.Assert(s.db.EndTransaction(ctx), IsNil)

	c.Check(s.countPeople(c), Equals, int64(2))
}

func (s *PackageSuite) TestNestedTransactionFailureRollsBackAll(c *C) {
	outer, err := s.db.BeginTransaction(context.Background())
	c.Assert(err, IsNil)
	s.insert(c, outer, "Outer")

	inner, err := s.db.BeginTransaction(outer)
	c.Assert(err, IsNil)
	s.insert(c, inner, "Inner")
	c.Assert(s.db.EndTransaction(inner), IsNil)

	c.Check(s.db.InTransaction(outer), Equals, true)
	s.db.SetTransactionSuccessful(outer)
	c.Assert(s.db.EndTransaction(outer), IsNil)

	c.Check(s.countPeople(c), Equals, int64(2))
}

func (s *PackageSuite) TestNestedTransactionCommit(c *C) {
	outer, err := s.db.BeginTransaction(context.Background())
	c.Assert(err, IsNil)

	inner, err := s.db.BeginTransaction(outer)
	c.Assert(err, IsNil)
	s.insert(c, inner, "Inner")
	s.db.SetTransactionSuccessful(inner)
	c.Assert(s.db.EndTransaction(inner), IsNil)

	s.db.SetTransactionSuccessful(outer)
	c.Assert(s.db.EndTransaction(outer), IsNil)

	c.Check(s.countPeople(c), Equals, int64(3))
}

type ErrorSuite struct{}

var _ = Suite(&ErrorSuite{})

func (s *ErrorSuite) TestTranslate(c *C) {
	c.Check(dbrt.Translate(nil), IsNil)

	cause := errors.New("boom")
	err := dbrt.Translate(cause)

	var dbErr *dbrt.Error
	c.Assert(errors.As(err, &dbErr), Equals, true)
	c.Check(dbErr.Cause, Equals, cause)
	c.Check(errors.Is(err, cause), Equals, true)
	c.Check(err.Error(), Equals, "dbrt: boom")

	c.Check(dbrt.Translate(err), Equals, err)
}

func (s *ErrorSuite) TestExpandQuery(c *C) {
	c.Check(dbrt.ExpandQuery([]string{"SELECT 1"}), Equals, "SELECT 1")
	c.Check(dbrt.ExpandQuery([]string{"a = ", " AND b IN (", ")"}, 1, 3), Equals, "a = ? AND b IN (?, ?, ?)")
	c.Check(dbrt.ExpandQuery([]string{"IN (", ")"}, 0), Equals, "IN ()")
	c.Check(dbrt.ExpandQuery([]string{"x = ", ""}), Equals, "x = ?")
}

func (s *ErrorSuite) TestNewCursor(c *C) {
	cur := dbrt.NewCursor([]string{"id", "label"}, []any{int64(7), "seven"})
	c.Assert(cur.MoveToFirst(), Equals, true)
	c.Check(cur.Int64(0), Equals, int64(7))
	c.Check(cur.String(cur.ColumnIndex("label")), Equals, "seven")
}
