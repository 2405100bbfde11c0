package scene

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/google/uuid"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

//go:embed schema.sql
var schema string

// Repository persists scenes in sqlite. The scene row holds the
// dimensions; strips live in a child table keyed by ordinal so the
// strip order survives a round trip.
type Repository struct {
	Db *sql.DB
}

// OpenRepository opens (or creates) the database at the given sqlite URI
// and applies the schema.
func OpenRepository(uri string) (*Repository, error) {
	db, err := sql.Open("sqlite3", uri)
	if err != nil {
		return nil, fmt.Errorf("Couldn't open database:\n%w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("Couldn't initialise database:\n%w", err)
	}
	return &Repository{Db: db}, nil
}

func (r *Repository) Close() error {
	return r.Db.Close()
}

func (r *Repository) readSceneBase(u uuid.UUID) (*Scene, error) {
	row := r.Db.QueryRow(`
    SELECT id, name, created_at, res_w, res_h, width_cm
    FROM scene
    WHERE uuid = ?`, u.String())

	s := Scene{Uuid: u}
	if err := row.Scan(&s.Id, &s.Name, &s.CreatedAt, &s.Dims.Resolution[0], &s.Dims.Resolution[1], &s.Dims.WidthCm); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("Failed to read scene:\n%w", err)
	}

	return &s, nil
}

// List returns every stored scene without its strips.
func (r *Repository) List() ([]Scene, error) {
	rows, err := r.Db.Query(`SELECT uuid, id, name, created_at, res_w, res_h, width_cm FROM scene`)
	if err != nil {
		return nil, fmt.Errorf("Query execution failed:\n%w", err)
	}
	defer rows.Close()

	scenes := []Scene{}
	for rows.Next() {
		s := Scene{}
		var uuidString string
		if err := rows.Scan(&uuidString, &s.Id, &s.Name, &s.CreatedAt, &s.Dims.Resolution[0], &s.Dims.Resolution[1], &s.Dims.WidthCm); err != nil {
			return nil, fmt.Errorf("Row scanning failed:\n%w", err)
		}
		s.Uuid = uuid.MustParse(uuidString)
		scenes = append(scenes, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Error iterating rows:\n%w", err)
	}

	return scenes, nil
}

func (r *Repository) Exists(u uuid.UUID) (bool, error) {
	s, err := r.readSceneBase(u)
	if err != nil {
		return false, err
	}
	return s != nil, nil
}

// Get returns the scene with its strips in layout order, or nil if no
// scene has that UUID.
func (r *Repository) Get(u uuid.UUID) (*Scene, error) {
	s, err := r.readSceneBase(u)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, nil
	}

	rows, err := r.Db.Query(`
    SELECT pos_x, pos_y, width_cm, height_cm, rotation, color
    FROM scene_strip
    WHERE scene_id = ?
    ORDER BY ordinal`, s.Id)
	if err != nil {
		return nil, fmt.Errorf("Failed to read strips for scene:\n%w", err)
	}
	defer rows.Close()

	for rows.Next() {
		st := Strip{}
		if err := rows.Scan(&st.Position[0], &st.Position[1], &st.SizeCm[0], &st.SizeCm[1], &st.RotationDeg, &st.Color); err != nil {
			return nil, fmt.Errorf("Row scanning failed:\n%w", err)
		}
		s.Strips = append(s.Strips, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Error iterating rows:\n%w", err)
	}

	return s, nil
}

// Transact runs operations in a transaction, committing afterward, or
// rolling back if the passed function returns an error.
func (r *Repository) Transact(f func(*sql.Tx) error) error {
	tx, err := r.Db.Begin()
	if err != nil {
		return err
	}

	if err := f(tx); err != nil {
		if err2 := tx.Rollback(); err2 != nil {
			return fmt.Errorf("Failed to roll back transaction: %w\n\nAfter handling: %v", err2, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Failed to commit transaction:\n%w", err)
	}
	return nil
}

func (r *Repository) Create(tx *sql.Tx, s *Scene) error {
	row := tx.QueryRow(`
    INSERT INTO scene(uuid, name, created_at, res_w, res_h, width_cm)
    VALUES (?, ?, ?, ?, ?, ?)
    RETURNING id`,
		s.Uuid.String(), s.Name, s.CreatedAt,
		s.Dims.Resolution[0], s.Dims.Resolution[1], s.Dims.WidthCm)
	if err := row.Scan(&s.Id); err != nil {
		return fmt.Errorf("Failed to insert into scene:\n%w", err)
	}

	return r.insertStrips(tx, s)
}

func (r *Repository) Update(tx *sql.Tx, u uuid.UUID, s *Scene) error {
	fromDb, err := r.readSceneBase(u)
	if err != nil {
		return err
	}
	if fromDb == nil {
		return fmt.Errorf("No scene with UUID %s", u.String())
	}

	s.Id = fromDb.Id
	if _, err := tx.Exec(`DELETE FROM scene_strip WHERE scene_id = ?`, s.Id); err != nil {
		return fmt.Errorf("Couldn't clear strips for scene:\n%w", err)
	}

	_, err = tx.Exec(`UPDATE scene SET name = ?, res_w = ?, res_h = ?, width_cm = ? WHERE id = ?`,
		s.Name, s.Dims.Resolution[0], s.Dims.Resolution[1], s.Dims.WidthCm, s.Id)
	if err != nil {
		return fmt.Errorf("Couldn't update scene data:\n%w", err)
	}

	return r.insertStrips(tx, s)
}

func (r *Repository) Delete(tx *sql.Tx, u uuid.UUID) error {
	fromDb, err := r.readSceneBase(u)
	if err != nil {
		return err
	}
	if fromDb == nil {
		return fmt.Errorf("No scene with UUID %s", u.String())
	}

	if _, err := tx.Exec(`DELETE FROM scene_strip WHERE scene_id = ?`, fromDb.Id); err != nil {
		return fmt.Errorf("Couldn't delete strips for scene:\n%w", err)
	}
	if _, err := tx.Exec(`DELETE FROM scene WHERE id = ?`, fromDb.Id); err != nil {
		return fmt.Errorf("Couldn't delete scene:\n%w", err)
	}
	return nil
}

func (r *Repository) insertStrips(tx *sql.Tx, s *Scene) error {
	stmt, err := tx.Prepare(`
    INSERT INTO scene_strip(scene_id, ordinal, pos_x, pos_y, width_cm, height_cm, rotation, color)
    VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("Failed to prepare statement to insert strip:\n%w", err)
	}
	defer stmt.Close()

	for i, st := range s.Strips {
		_, err := stmt.Exec(s.Id, i,
			st.Position[0], st.Position[1],
			st.SizeCm[0], st.SizeCm[1],
			st.RotationDeg,
			st.Color,
		)
		if err != nil {
			return fmt.Errorf("Failed to insert strip %v of scene:\n%w", i, err)
		}
	}

	return nil
}
