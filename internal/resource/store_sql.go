package resource

import (
	"context"
	"database/sql"
	"errors"
)

var ErrResourceNotFound = errors.New("resource not found")

type Store interface {
	Create(ctx context.Context, r Resource) error
	Get(ctx context.Context, id string) (Resource, error)
	List(ctx context.Context) ([]Resource, error)
	InsertDownload(ctx context.Context, d Download) error
	DownloadStats(ctx context.Context) (DownloadStats, error)
}

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Create(ctx context.Context, r Resource) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO resources (id,quiz_id,title,description,file_key,file_name,file_size,created_at,updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		r.ID, r.QuizID, r.Title, r.Description, r.FileKey, r.FileName, r.FileSize, r.CreatedAt, r.UpdatedAt)
	return err
}

func (s *SQLStore) Get(ctx context.Context, id string) (Resource, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,quiz_id,title,description,file_key,file_name,file_size,created_at,updated_at
		 FROM resources WHERE id=$1`, id)
	var r Resource
	if err := row.Scan(&r.ID, &r.QuizID, &r.Title, &r.Description, &r.FileKey, &r.FileName, &r.FileSize, &r.CreatedAt, &r.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resource{}, ErrResourceNotFound
		}
		return Resource{}, err
	}
	return r, nil
}

func (s *SQLStore) List(ctx context.Context) ([]Resource, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,quiz_id,title,description,file_key,file_name,file_size,created_at,updated_at
		 FROM resources ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Resource
	for rows.Next() {
		var r Resource
		if err := rows.Scan(&r.ID, &r.QuizID, &r.Title, &r.Description, &r.FileKey, &r.FileName, &r.FileSize, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLStore) InsertDownload(ctx context.Context, d Download) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO resource_downloads (id,user_id,resource_id,downloaded_at) VALUES ($1,$2,$3,$4)`,
		d.ID, d.UserID, d.ResourceID, d.DownloadedAt)
	return err
}

func (s *SQLStore) DownloadStats(ctx context.Context) (DownloadStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.title, COUNT(d.id)
		 FROM resources r
		 LEFT JOIN resource_downloads d ON d.resource_id = r.id
		 GROUP BY r.id, r.title
		 ORDER BY r.created_at`)
	if err != nil {
		return DownloadStats{}, err
	}
	defer rows.Close()
	var stats DownloadStats
	for rows.Next() {
		var st ResourceStat
		if err := rows.Scan(&st.ResourceID, &st.Title, &st.DownloadCount); err != nil {
			return DownloadStats{}, err
		}
		stats.TotalDownloads += st.DownloadCount
		stats.ResourceStats = append(stats.ResourceStats, st)
	}
	return stats, rows.Err()
}
