package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"github.com/waste-report-service/internal/domain"
	"github.com/waste-report-service/internal/domain/repository"
	"go.uber.org/zap"
)

type reportRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewReportRepository создает новый экземпляр report repository
func NewReportRepository(db *DB, logger *zap.Logger) repository.ReportRepository {
	return &reportRepository{
		db:     db,
		logger: logger,
	}
}

type reportRow struct {
	ID          uuid.UUID       `db:"id"`
	UserID      uuid.UUID       `db:"user_id"`
	Description sql.NullString  `db:"description"`
	Category    string          `db:"category"`
	Lat         float64         `db:"lat"`
	Lng         float64         `db:"lng"`
	Status      string          `db:"status"`
	Image       *types.JSONText `db:"image"`
	Audio       *types.JSONText `db:"audio"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

func (row *reportRow) toDomain() (*domain.WasteReport, error) {
	report := &domain.WasteReport{
		ID:          row.ID,
		UserID:      row.UserID,
		Description: row.Description.String,
		Category:    row.Category,
		Coordinate:  domain.Coordinate{Lat: row.Lat, Lng: row.Lng},
		Status:      domain.ReportStatus(row.Status),
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}

	if row.Image != nil {
		var set domain.MediaArtifactSet
		if err := json.Unmarshal(*row.Image, &set); err != nil {
			return nil, fmt.Errorf("unmarshal image artifacts: %w", err)
		}
		report.Image = &set
	}
	if row.Audio != nil {
		var audio domain.AudioArtifact
		if err := json.Unmarshal(*row.Audio, &audio); err != nil {
			return nil, fmt.Errorf("unmarshal audio artifact: %w", err)
		}
		report.Audio = &audio
	}

	return report, nil
}

func (r *reportRepository) Create(ctx context.Context, report *domain.WasteReport) error {
	var imageJSON, audioJSON interface{}
	if report.Image != nil {
		data, err := json.Marshal(report.Image)
		if err != nil {
			return fmt.Errorf("marshal image artifacts: %w", err)
		}
		imageJSON = types.JSONText(data)
	}
	if report.Audio != nil {
		data, err := json.Marshal(report.Audio)
		if err != nil {
			return fmt.Errorf("marshal audio artifact: %w", err)
		}
		audioJSON = types.JSONText(data)
	}

	query := `
		INSERT INTO waste_reports (id, user_id, description, category, lat, lng, status, image, audio, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $10)
	`

	now := time.Now().UTC()
	report.CreatedAt = now
	report.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		report.ID,
		report.UserID,
		report.Description,
		report.Category,
		report.Coordinate.Lat,
		report.Coordinate.Lng,
		string(report.Status),
		imageJSON,
		audioJSON,
		now,
	)
	if err != nil {
		r.logger.Error("failed to insert report",
			zap.String("report_id", report.ID.String()),
			zap.Error(err))
		return fmt.Errorf("insert report: %w", err)
	}

	return nil
}

func (r *reportRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WasteReport, error) {
	query := `
		SELECT id, user_id, description, category, lat, lng, status, image, audio, created_at, updated_at
		FROM waste_reports
		WHERE id = $1
	`

	var row reportRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get report: %w", err)
	}

	return row.toDomain()
}

func (r *reportRepository) List(ctx context.Context, filter domain.ReportFilter) ([]*domain.WasteReport, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	argn := 0

	if filter.Status != nil {
		argn++
		where += fmt.Sprintf(" AND status = $%d", argn)
		args = append(args, string(*filter.Status))
	}
	if filter.Category != nil {
		argn++
		where += fmt.Sprintf(" AND category = $%d", argn)
		args = append(args, *filter.Category)
	}
	if filter.UserID != nil {
		argn++
		where += fmt.Sprintf(" AND user_id = $%d", argn)
		args = append(args, *filter.UserID)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM waste_reports " + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count reports: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := fmt.Sprintf(`
		SELECT id, user_id, description, category, lat, lng, status, image, audio, created_at, updated_at
		FROM waste_reports
		%s
		ORDER BY created_at DESC
		LIMIT %d OFFSET %d
	`, where, limit, filter.Offset)

	var rows []reportRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list reports: %w", err)
	}

	reports := make([]*domain.WasteReport, 0, len(rows))
	for i := range rows {
		report, err := rows[i].toDomain()
		if err != nil {
			return nil, 0, err
		}
		reports = append(reports, report)
	}

	return reports, total, nil
}

func (r *reportRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ReportStatus) error {
	query := `UPDATE waste_reports SET status = $2, updated_at = now() WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, string(status))
	if err != nil {
		return fmt.Errorf("update report status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update report status: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *reportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM waste_reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetUserStats пересчитывает статистику из таблицы отчётов одним
// запросом. Уникальные локации - корзины ~100 м: координаты,
// округлённые до 3 знаков.
func (r *reportRepository) GetUserStats(ctx context.Context, userID uuid.UUID) (*domain.UserStats, error) {
	query := `
		SELECT
			COUNT(*)                                                        AS total_reports,
			COUNT(*) FILTER (WHERE status = 'collected')                    AS collected_reports,
			COUNT(*) FILTER (WHERE image IS NOT NULL)                       AS reports_with_images,
			COUNT(DISTINCT (round(lat::numeric, 3), round(lng::numeric, 3))) AS unique_locations
		FROM waste_reports
		WHERE user_id = $1
	`

	var stats domain.UserStats
	if err := r.db.GetContext(ctx, &stats, query, userID); err != nil {
		return nil, fmt.Errorf("get user stats: %w", err)
	}

	var points int
	if err := r.db.GetContext(ctx, &points, `SELECT total_points FROM users WHERE id = $1`, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("get user points: %w", err)
	}
	stats.TotalPoints = points

	return &stats, nil
}

// ListActiveReporters возвращает авторов отчётов, менявшихся после
// указанного момента
func (r *reportRepository) ListActiveReporters(ctx context.Context, since time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids,
		`SELECT DISTINCT user_id FROM waste_reports WHERE updated_at >= $1`,
		since)
	if err != nil {
		return nil, fmt.Errorf("list active reporters: %w", err)
	}
	return ids, nil
}
