package pixelcanvas

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bodgit/pixelcanvas/cart"
	"github.com/bodgit/pixelcanvas/pixel"
	"github.com/bodgit/pixelcanvas/wire"
	_ "github.com/mattn/go-sqlite3"
)

// DB stores the last known state of the canvas, the staged cart and a
// journal of every payload submitted.
type DB struct {
	db *sql.DB
}

// Submission is one journal entry.
type Submission struct {
	ID        int64
	Checkout  int64
	Sequence  int
	Kind      Kind
	Data      string
	Palette   string
	CRC       string
	Cells     int
	Confirmed bool
	Created   time.Time
}

// NewDB opens or creates the sqlite database in file.
func NewDB(file string) (*DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS canvas (idx INTEGER PRIMARY KEY NOT NULL, color INTEGER NOT NULL)"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS cart (idx INTEGER PRIMARY KEY NOT NULL, color INTEGER NOT NULL, original INTEGER NOT NULL)"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS checkout (id INTEGER PRIMARY KEY NOT NULL, created INTEGER NOT NULL)"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS submission (id INTEGER PRIMARY KEY NOT NULL, checkout_id INTEGER NOT NULL, seq INTEGER NOT NULL, kind INTEGER NOT NULL, data TEXT NOT NULL, palette TEXT NOT NULL, crc TEXT NOT NULL, cells INTEGER NOT NULL, confirmed INTEGER NOT NULL DEFAULT 0, FOREIGN KEY(checkout_id) REFERENCES checkout(id))"); err != nil {
		return nil, err
	}

	return &DB{
		db: db,
	}, nil
}

// Close closes the database.
func (db *DB) Close() error {
	return db.db.Close()
}

// Canvas returns every painted cell as last confirmed.
func (db *DB) Canvas() (*pixel.Set, error) {
	rows, err := db.db.Query("SELECT idx, color FROM canvas")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	s := pixel.NewSet()
	for rows.Next() {
		var i int
		var c int64
		if err := rows.Scan(&i, &c); err != nil {
			return nil, err
		}
		color, err := pixel.NewColor(c)
		if err != nil {
			return nil, err
		}
		s.Set(i, color)
	}

	return s, rows.Err()
}

// CanvasColor returns the last confirmed colour of cell i, unpainted
// cells being black.
func (db *DB) CanvasColor(i int) (pixel.Color, error) {
	var c int64
	switch err := db.db.QueryRow("SELECT color FROM canvas WHERE idx = ?", i).Scan(&c); err {
	case sql.ErrNoRows:
		return 0, nil
	case nil:
		return pixel.NewColor(c)
	default:
		return 0, err
	}
}

// LoadCart returns the staged cart.
func (db *DB) LoadCart() (*cart.Cart, error) {
	rows, err := db.db.Query("SELECT idx, color, original FROM cart ORDER BY idx")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	c := cart.New()
	for rows.Next() {
		var i int
		var color, original int64
		if err := rows.Scan(&i, &color, &original); err != nil {
			return nil, err
		}
		cc, err := pixel.NewColor(color)
		if err != nil {
			return nil, err
		}
		oc, err := pixel.NewColor(original)
		if err != nil {
			return nil, err
		}
		c.Stage(i, cc, oc)
	}

	return c, rows.Err()
}

// SaveCart replaces the staged cart with c.
func (db *DB) SaveCart(c *cart.Cart) error {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.Exec("DELETE FROM cart"); err != nil {
		return err
	}

	stmt, err := tx.Prepare("INSERT INTO cart (idx, color, original) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range c.Entries() {
		if _, err = stmt.Exec(e.Index, int64(e.Color), int64(e.Original)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (db *DB) newCheckout() (int64, error) {
	result, err := db.db.Exec("INSERT INTO checkout (created) VALUES (?)", time.Now().Unix())
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (db *DB) addSubmission(checkout int64, seq int, p Payload) (int64, error) {
	palette := ""
	if p.Kind == KindRLE {
		palette = wire.Hex(p.Palette)
	}
	result, err := db.db.Exec("INSERT INTO submission (checkout_id, seq, kind, data, palette, crc, cells) VALUES (?, ?, ?, ?, ?, ?, ?)", checkout, seq, int(p.Kind), wire.Hex(p.Data), palette, checksum(p.Data, p.Palette), p.Cells.Len())
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// confirmSubmission marks a journal entry as confirmed, writes its cells
// to the canvas and removes them from the cart, all or nothing.
func (db *DB) confirmSubmission(id int64, cells *pixel.Set) error {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.Exec("UPDATE submission SET confirmed = 1 WHERE id = ?", id); err != nil {
		return err
	}

	for _, u := range cells.Entries() {
		if _, err = tx.Exec("INSERT OR REPLACE INTO canvas (idx, color) VALUES (?, ?)", u.Index, int64(u.Color)); err != nil {
			return err
		}
		// Only drop the cell if it wasn't restaged with another colour
		if _, err = tx.Exec("DELETE FROM cart WHERE idx = ? AND color = ?", u.Index, int64(u.Color)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Submissions returns the journal, oldest first.
func (db *DB) Submissions() ([]Submission, error) {
	rows, err := db.db.Query("SELECT s.id, s.checkout_id, s.seq, s.kind, s.data, s.palette, s.crc, s.cells, s.confirmed, c.created FROM submission AS s JOIN checkout AS c ON s.checkout_id = c.id ORDER BY s.id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []Submission
	for rows.Next() {
		var s Submission
		var kind int
		var created int64
		if err := rows.Scan(&s.ID, &s.Checkout, &s.Sequence, &kind, &s.Data, &s.Palette, &s.CRC, &s.Cells, &s.Confirmed, &created); err != nil {
			return nil, err
		}
		s.Kind = Kind(kind)
		s.Created = time.Unix(created, 0)
		subs = append(subs, s)
	}

	return subs, rows.Err()
}
