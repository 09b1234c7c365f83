package index

import (
	"database/sql"
	"time"

	"github.com/snitch-dev/snitch/internal/errors"
)

// Location is one recorded entry id with where it lives.
type Location struct {
	ID           string `json:"id"`
	ProjectRoot  string `json:"project_root"`
	TrackingFile string `json:"tracking_file"`
	Heading      string `json:"heading"`
	Title        string `json:"title"`
	Seq          int    `json:"seq"`
	Session      string `json:"session,omitempty"`
	CreatedAt    int64  `json:"created_at"`
	UpdatedAt    int64  `json:"updated_at"`
}

// Record upserts a location for an entry id. Ids are content hashes of the
// title, so a re-capture of the same title overwrites: last write wins.
func Record(db *sql.DB, loc *Location) error {
	now := time.Now().Unix()
	query := `
		INSERT INTO locations (
			id, project_root, tracking_file, heading, title, seq, session,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			project_root = excluded.project_root,
			tracking_file = excluded.tracking_file,
			heading = excluded.heading,
			title = excluded.title,
			seq = excluded.seq,
			session = excluded.session,
			updated_at = excluded.updated_at
	`
	_, err := db.Exec(query,
		loc.ID, loc.ProjectRoot, loc.TrackingFile, loc.Heading, loc.Title,
		loc.Seq, loc.Session, now, now,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// Lookup retrieves the location recorded for an entry id.
func Lookup(db *sql.DB, id string) (*Location, error) {
	query := `
		SELECT id, project_root, tracking_file, heading, title, seq,
		       COALESCE(session, ''), created_at, updated_at
		FROM locations WHERE id = ?
	`
	loc := &Location{}
	err := db.QueryRow(query, id).Scan(
		&loc.ID, &loc.ProjectRoot, &loc.TrackingFile, &loc.Heading,
		&loc.Title, &loc.Seq, &loc.Session, &loc.CreatedAt, &loc.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return loc, nil
}

// ByProject lists every recorded location under a project root, ordered by
// sequence number.
func ByProject(db *sql.DB, projectRoot string) ([]Location, error) {
	query := `
		SELECT id, project_root, tracking_file, heading, title, seq,
		       COALESCE(session, ''), created_at, updated_at
		FROM locations WHERE project_root = ? ORDER BY seq
	`
	rows, err := db.Query(query, projectRoot)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var out []Location
	for rows.Next() {
		var loc Location
		if err := rows.Scan(
			&loc.ID, &loc.ProjectRoot, &loc.TrackingFile, &loc.Heading,
			&loc.Title, &loc.Seq, &loc.Session, &loc.CreatedAt, &loc.UpdatedAt,
		); err != nil {
			return nil, errors.NewInternal(err)
		}
		out = append(out, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return out, nil
}
