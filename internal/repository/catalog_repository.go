package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/routinepro/routine-pro-api/internal/models"
)

// CatalogRepository persists the offered-course catalog. Imports replace
// the catalog wholesale inside one transaction; reads rebuild the nested
// course structure from three flat tables.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository builds repository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

type courseRow struct {
	ID         string `db:"id"`
	Code       string `db:"code"`
	BaseTitle  string `db:"base_title"`
	Department string `db:"department"`
	Position   int    `db:"position"`
}

type sectionRow struct {
	ID       string `db:"id"`
	CourseID string `db:"course_id"`
	Label    string `db:"label"`
	Status   string `db:"status"`
	Capacity int    `db:"capacity"`
	Enrolled int    `db:"enrolled"`
	Position int    `db:"position"`
}

type slotRow struct {
	ID        string `db:"id"`
	SectionID string `db:"section_id"`
	Day       string `db:"day"`
	StartTime string `db:"start_time"`
	EndTime   string `db:"end_time"`
	Room      string `db:"room"`
	ClassType string `db:"class_type"`
	Position  int    `db:"position"`
}

// Replace swaps the stored catalog for the given courses and records the
// import provenance. Positions preserve catalog order so reloads keep the
// deterministic enumeration order of generation runs.
func (r *CatalogRepository) Replace(ctx context.Context, courses []models.Course, meta models.CatalogMeta) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin catalog replace: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"section_slots", "sections", "courses"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	const insertCourse = `
INSERT INTO courses (id, code, base_title, department, position)
VALUES (:id, :code, :base_title, :department, :position)`
	const insertSection = `
INSERT INTO sections (id, course_id, label, status, capacity, enrolled, position)
VALUES (:id, :course_id, :label, :status, :capacity, :enrolled, :position)`
	const insertSlot = `
INSERT INTO section_slots (id, section_id, day, start_time, end_time, room, class_type, position)
VALUES (:id, :section_id, :day, :start_time, :end_time, :room, :class_type, :position)`

	for ci, course := range courses {
		cRow := courseRow{
			ID:         uuid.NewString(),
			Code:       course.Code,
			BaseTitle:  course.BaseTitle,
			Department: course.Department,
			Position:   ci,
		}
		if _, err = sqlx.NamedExecContext(ctx, tx, insertCourse, cRow); err != nil {
			return fmt.Errorf("insert course: %w", err)
		}
		for si, section := range course.Sections {
			sRow := sectionRow{
				ID:       section.ID,
				CourseID: cRow.ID,
				Label:    section.Label,
				Status:   section.Status,
				Capacity: section.Capacity,
				Enrolled: section.Enrolled,
				Position: si,
			}
			if sRow.ID == "" {
				sRow.ID = uuid.NewString()
			}
			if _, err = sqlx.NamedExecContext(ctx, tx, insertSection, sRow); err != nil {
				return fmt.Errorf("insert section: %w", err)
			}
			for pi, slot := range section.Schedules {
				row := slotRow{
					ID:        uuid.NewString(),
					SectionID: sRow.ID,
					Day:       slot.Day,
					StartTime: slot.Start,
					EndTime:   slot.End,
					Room:      slot.Room,
					ClassType: slot.Type,
					Position:  pi,
				}
				if _, err = sqlx.NamedExecContext(ctx, tx, insertSlot, row); err != nil {
					return fmt.Errorf("insert section slot: %w", err)
				}
			}
		}
	}

	const upsertMeta = `
INSERT INTO catalog_meta (id, semester, synced_at)
VALUES (1, $1, $2)
ON CONFLICT (id) DO UPDATE SET semester = EXCLUDED.semester, synced_at = EXCLUDED.synced_at`
	if meta.SyncedAt.IsZero() {
		meta.SyncedAt = time.Now().UTC()
	}
	if _, err = tx.ExecContext(ctx, upsertMeta, meta.Semester, meta.SyncedAt); err != nil {
		return fmt.Errorf("upsert catalog meta: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit catalog replace: %w", err)
	}
	return nil
}

// Load returns the stored catalog in import order.
func (r *CatalogRepository) Load(ctx context.Context) ([]models.Course, error) {
	var cRows []courseRow
	if err := r.db.SelectContext(ctx, &cRows,
		`SELECT id, code, base_title, department, position FROM courses ORDER BY position ASC`); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	var sRows []sectionRow
	if err := r.db.SelectContext(ctx, &sRows,
		`SELECT id, course_id, label, status, capacity, enrolled, position FROM sections ORDER BY position ASC`); err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}

	var slRows []slotRow
	if err := r.db.SelectContext(ctx, &slRows,
		`SELECT id, section_id, day, start_time, end_time, room, class_type, position FROM section_slots ORDER BY position ASC`); err != nil {
		return nil, fmt.Errorf("list section slots: %w", err)
	}

	slotsBySection := make(map[string][]models.ScheduleSlot)
	for _, row := range slRows {
		slotsBySection[row.SectionID] = append(slotsBySection[row.SectionID], models.ScheduleSlot{
			Day:   row.Day,
			Start: row.StartTime,
			End:   row.EndTime,
			Room:  row.Room,
			Type:  row.ClassType,
		})
	}

	sectionsByCourse := make(map[string][]models.Section)
	for _, row := range sRows {
		sectionsByCourse[row.CourseID] = append(sectionsByCourse[row.CourseID], models.Section{
			ID:        row.ID,
			Label:     row.Label,
			Status:    row.Status,
			Capacity:  row.Capacity,
			Enrolled:  row.Enrolled,
			Schedules: slotsBySection[row.ID],
		})
	}

	courses := make([]models.Course, 0, len(cRows))
	for _, row := range cRows {
		courses = append(courses, models.Course{
			Code:       row.Code,
			BaseTitle:  row.BaseTitle,
			Department: row.Department,
			Sections:   sectionsByCourse[row.ID],
		})
	}
	return courses, nil
}

// Meta returns the import provenance of the stored catalog.
func (r *CatalogRepository) Meta(ctx context.Context) (*models.CatalogMeta, error) {
	var meta models.CatalogMeta
	err := r.db.GetContext(ctx, &meta, `SELECT semester, synced_at FROM catalog_meta WHERE id = 1`)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("load catalog meta: %w", err)
	}
	return &meta, nil
}
