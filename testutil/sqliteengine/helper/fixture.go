package helper

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3" // dialect import
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // registers the plain "sqlite3" driver
	"github.com/stretchr/testify/require"

	"github.com/opdskit/opds-catalog-go/catalog"
	"github.com/opdskit/opds-catalog-go/catalog/collation"
	"github.com/opdskit/opds-catalog-go/catalog/sqliteengine"
)

// Author identities of the fixture catalog.
var (
	HowardPyle         = catalog.AuthorIDs{First: 2, Middle: 1, Last: 1}
	AnnaVeles          = catalog.AuthorIDs{First: 3, Middle: 1, Last: 2}
	PavelIevlev        = catalog.AuthorIDs{First: 4, Middle: 2, Last: 3}
	FrostKey           = catalog.AuthorIDs{First: 9, Middle: 1, Last: 9}
	AmiPlat            = catalog.AuthorIDs{First: 10, Middle: 3, Last: 10}
	DanAbnett          = catalog.AuthorIDs{First: 11, Middle: 1, Last: 11}
	UnknownAuthor      = catalog.AuthorIDs{First: 999, Middle: 1, Last: 1}
	AuthorWithoutBooks = catalog.AuthorIDs{First: 8, Middle: 1, Last: 1}
)

// Book, series and genre ids of the fixture catalog.
const (
	BookKnights      = int64(768409)
	BookWritersDay   = int64(768500)
	BookGloomyCastle = int64(768501)
	BookSnakeThrone  = int64(768502)
	BookBloodFirst   = int64(768503)
	BookBloodSecond  = int64(768504)
	BookAviatrices   = int64(768505)
	BookCoauthors    = int64(768514)

	SerieBlood         = int64(10)
	SerieSnakeThrone   = int64(29)
	SerieGloomyCastles = int64(30)
	SerieSky           = int64(40)
	SerieWarhammer     = int64(50)
	SerieWarhammerLow  = int64(51)

	GenreSciHistory       = int64(24)
	GenreLoveContemporary = int64(5)
	GenreAdvHistory       = int64(7)
)

const fixtureSchema = `
CREATE TABLE first_names (id INTEGER PRIMARY KEY, value TEXT NOT NULL);
CREATE TABLE middle_names (id INTEGER PRIMARY KEY, value TEXT NOT NULL);
CREATE TABLE last_names (id INTEGER PRIMARY KEY, value TEXT NOT NULL);
CREATE TABLE titles (id INTEGER PRIMARY KEY, value TEXT NOT NULL);
CREATE TABLE dates (id INTEGER PRIMARY KEY, value TEXT NOT NULL);
CREATE TABLE series (id INTEGER PRIMARY KEY, value TEXT);
CREATE TABLE books (book_id INTEGER PRIMARY KEY, title_id INTEGER NOT NULL, date_id INTEGER NOT NULL, book_size INTEGER NOT NULL);
CREATE TABLE authors_map (book_id INTEGER NOT NULL, first_name_id INTEGER NOT NULL, middle_name_id INTEGER NOT NULL, last_name_id INTEGER NOT NULL);
CREATE TABLE series_map (book_id INTEGER NOT NULL, serie_id INTEGER NOT NULL, serie_num INTEGER);
CREATE TABLE genres (id INTEGER PRIMARY KEY, value TEXT NOT NULL);
CREATE TABLE genres_def (code TEXT NOT NULL, genre TEXT NOT NULL, meta TEXT NOT NULL);
CREATE TABLE genres_map (book_id INTEGER NOT NULL, genre_id INTEGER NOT NULL);
`

func valueRows(values map[int64]string) []any {
	rows := make([]any, 0, len(values))
	for id, value := range values {
		rows = append(rows, goqu.Record{"id": id, "value": value})
	}

	return rows
}

func fixtureInserts() map[string][]any {
	inserts := map[string][]any{
		"first_names": valueRows(map[int64]string{
			1: "", 2: "Говард", 3: "Анна", 4: "Павел", 5: "Адель", 6: "Рэйчел",
			7: "Александр", 8: "Мария", 9: "Фрост", 10: "Ами", 11: "Дэн",
		}),
		"middle_names": valueRows(map[int64]string{1: "", 2: "Сергеевич", 3: "Д."}),
		"last_names": valueRows(map[int64]string{
			1: "Пайл", 2: "Велес", 3: "Иевлев", 4: "Кейн", 5: "Александров", 6: "Александрова",
			7: "Стоев", 8: "Стоун", 9: "Кей", 10: "Плат", 11: "Абнетт",
		}),
		"titles": valueRows(map[int64]string{
			1: "Рыцари, закованные в сталь", 2: "День писателя", 3: "Хозяин мрачного замка", 4: "Трон змей",
			5: "Кровь на воздух", 6: "Кровь на воздух 2", 7: "Авиатрисы", 8: "Старый замок", 9: "Сто лет",
			10: "Странник", 11: "Пепел", 12: "Шёпот", 13: "Глубина", 14: "Соавторы", 15: "Орден", 16: "Ересь",
		}),
		"dates": valueRows(map[int64]string{
			1: "2024-06-01", 2: "2024-06-18", 3: "2024-06-05", 4: "2024-07-01",
			5: "2024-07-02", 6: "2024-06-30", 7: "2024-09-01", 8: "2024-05-10",
		}),
		"series": valueRows(map[int64]string{
			SerieBlood: "Кровь на воздух", SerieSnakeThrone: "Змеиный трон", SerieGloomyCastles: "Мрачные замки",
			SerieSky: "Небо", SerieWarhammer: "Warhammer 40000", SerieWarhammerLow: "warhammer 40000",
		}),
		"genres": valueRows(map[int64]string{
			GenreSciHistory: "sci_history", GenreLoveContemporary: "love_contemporary", GenreAdvHistory: "adv_history",
			47: "job_hunting", 44: "marketing", 48: "banking", 120: "economics",
		}),
	}

	inserts["genres_def"] = []any{
		genreDef("sci_history", "История", "Наука, Образование"),
		genreDef("love_contemporary", "Современные любовные романы", "Любовные романы"),
		genreDef("adv_history", "Исторические приключения", "Приключения"),
		genreDef("job_hunting", "Карьера, кадры", "Деловая литература"),
		genreDef("marketing", "Маркетинг, PR", "Деловая литература"),
		genreDef("banking", "Финансы", "Деловая литература"),
		genreDef("economics", "Экономика", "Деловая литература"),
	}

	inserts["books"] = []any{
		book(BookKnights, 1, 1, 2580000),
		book(BookWritersDay, 2, 2, 999620),
		book(BookGloomyCastle, 3, 3, 2002780),
		book(BookSnakeThrone, 4, 3, 1793000),
		book(BookBloodFirst, 5, 4, 500),
		book(BookBloodSecond, 6, 5, 2048),
		book(BookAviatrices, 7, 6, 2831155),
		book(768506, 8, 8, 100000),
		book(768507, 9, 8, 110000),
		book(768508, 10, 8, 120000),
		book(768509, 11, 8, 130000),
		book(768510, 12, 8, 140000),
		book(768511, 13, 8, 150000),
		book(BookCoauthors, 14, 7, 1000),
		book(768520, 15, 8, 700000),
		book(768521, 16, 8, 800000),
	}

	inserts["authors_map"] = []any{
		authorOf(BookKnights, HowardPyle),
		authorOf(BookWritersDay, AnnaVeles),
		authorOf(BookGloomyCastle, AnnaVeles),
		authorOf(BookSnakeThrone, FrostKey),
		authorOf(BookBloodFirst, PavelIevlev),
		authorOf(BookBloodSecond, PavelIevlev),
		authorOf(BookAviatrices, AmiPlat),
		authorOf(768506, catalog.AuthorIDs{First: 5, Middle: 1, Last: 4}),
		authorOf(768507, catalog.AuthorIDs{First: 6, Middle: 1, Last: 4}),
		authorOf(768508, catalog.AuthorIDs{First: 7, Middle: 1, Last: 5}),
		authorOf(768509, catalog.AuthorIDs{First: 8, Middle: 1, Last: 6}),
		authorOf(768510, catalog.AuthorIDs{First: 1, Middle: 1, Last: 7}),
		authorOf(768511, catalog.AuthorIDs{First: 1, Middle: 1, Last: 8}),
		authorOf(BookCoauthors, AnnaVeles),
		authorOf(BookCoauthors, PavelIevlev),
		authorOf(768520, DanAbnett),
		authorOf(768521, DanAbnett),
	}

	inserts["series_map"] = []any{
		serieOf(BookGloomyCastle, SerieGloomyCastles, 2),
		serieOf(BookSnakeThrone, SerieSnakeThrone, 3),
		serieOf(BookBloodFirst, SerieBlood, 1),
		serieOf(BookBloodSecond, SerieBlood, 2),
		serieOf(BookAviatrices, SerieSky, 1),
		serieOf(768520, SerieWarhammer, 1),
		serieOf(768521, SerieWarhammerLow, 1),
	}

	inserts["genres_map"] = []any{
		genreOf(BookKnights, GenreSciHistory),
		genreOf(BookWritersDay, GenreLoveContemporary),
		genreOf(BookGloomyCastle, GenreLoveContemporary),
		genreOf(BookSnakeThrone, GenreSciHistory),
		genreOf(BookBloodFirst, GenreSciHistory),
		genreOf(BookBloodSecond, GenreSciHistory),
		genreOf(BookAviatrices, GenreAdvHistory),
		genreOf(768506, 47),
		genreOf(768507, 44),
		genreOf(768508, 48),
		genreOf(768509, 120),
		genreOf(768510, 47),
		genreOf(768511, 47),
	}

	return inserts
}

func genreDef(code, genre, meta string) goqu.Record {
	return goqu.Record{"code": code, "genre": genre, "meta": meta}
}

func book(id, titleID, dateID, size int64) goqu.Record {
	return goqu.Record{"book_id": id, "title_id": titleID, "date_id": dateID, "book_size": size}
}

func authorOf(bookID int64, ids catalog.AuthorIDs) goqu.Record {
	return goqu.Record{
		"book_id":        bookID,
		"first_name_id":  ids.First,
		"middle_name_id": ids.Middle,
		"last_name_id":   ids.Last,
	}
}

func serieOf(bookID, serieID, index int64) goqu.Record {
	return goqu.Record{"book_id": bookID, "serie_id": serieID, "serie_num": index}
}

func genreOf(bookID, genreID int64) goqu.Record {
	return goqu.Record{"book_id": bookID, "genre_id": genreID}
}

// GivenFixtureCatalog writes the fixture catalog into a fresh SQLite file and returns its path.
func GivenFixtureCatalog(t testing.TB) string {
	t.Helper()

	path := givenEmptyDatabase(t)
	writeFixture(t, openWritable(t, path))

	return path
}

// GivenFixtureCatalogWithRows writes the fixture catalog plus the extra rows into table.
func GivenFixtureCatalogWithRows(t testing.TB, table string, rows ...goqu.Record) string {
	t.Helper()

	path := givenEmptyDatabase(t)
	db := openWritable(t, path)
	writeFixture(t, db)

	extra := make([]any, 0, len(rows))
	for _, row := range rows {
		extra = append(extra, row)
	}

	query, _, err := goqu.Dialect("sqlite3").Insert(table).Rows(extra...).ToSQL()
	require.NoError(t, err, "building the extra insert for %s failed", table)

	_, err = db.Exec(query)
	require.NoError(t, err, "inserting the extra rows for %s failed", table)

	return path
}

// OpenCatalog opens the catalog file at path and closes it when the test ends.
func OpenCatalog(t testing.TB, path string, options ...sqliteengine.Option) *sqliteengine.Catalog {
	t.Helper()

	c, err := sqliteengine.Open(context.Background(), path, options...)
	require.NoError(t, err, "opening the catalog %s failed", path)

	t.Cleanup(func() {
		_ = c.Close()
	})

	return c
}

func writeFixture(t testing.TB, db *sqlx.DB) {
	t.Helper()

	_, err := db.Exec(fixtureSchema)
	require.NoError(t, err, "creating the fixture schema failed")

	dialect := goqu.Dialect("sqlite3")
	for table, rows := range fixtureInserts() {
		query, _, buildErr := dialect.Insert(table).Rows(rows...).ToSQL()
		require.NoError(t, buildErr, "building the fixture insert for %s failed", table)

		_, err = db.Exec(query)
		require.NoError(t, err, "inserting the fixture rows for %s failed", table)
	}
}

// GivenDatabaseWithTables creates a SQLite file holding only the given tables, each with an id column.
func GivenDatabaseWithTables(t testing.TB, tables ...string) string {
	t.Helper()

	path := givenEmptyDatabase(t)
	db := openWritable(t, path)

	for _, table := range tables {
		_, err := db.Exec("CREATE TABLE " + table + " (id INTEGER PRIMARY KEY)")
		require.NoError(t, err, "creating table %s failed", table)
	}

	return path
}

// OpenFixtureCatalog opens a fresh fixture catalog read-only and closes it when the test ends.
func OpenFixtureCatalog(t testing.TB, options ...sqliteengine.Option) *sqliteengine.Catalog {
	t.Helper()

	return OpenCatalog(t, GivenFixtureCatalog(t), options...)
}

// OpenFixtureSQLX opens a fresh fixture catalog as sqlx.DB on the driver that carries the default collation.
func OpenFixtureSQLX(t testing.TB) *sqlx.DB {
	t.Helper()

	driverName := sqliteengine.RegisterDriver(collation.Default)

	db, err := sqlx.Open(driverName, sqliteengine.ReadOnlyDSN(GivenFixtureCatalog(t)))
	require.NoError(t, err, "opening the fixture database failed")

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

func givenEmptyDatabase(t testing.TB) string {
	return filepath.Join(t.TempDir(), uuid.NewString()+".sqlite")
}

func openWritable(t testing.TB, path string) *sqlx.DB {
	db, err := sqlx.Open("sqlite3", path)
	require.NoError(t, err, "opening %s for writing failed", path)

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}
