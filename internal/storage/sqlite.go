// internal/storage/sqlite.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"mcp-health-journal/internal/models"
)

var (
	ErrNotFound        = errors.New("entry not found")
	ErrUnknownCategory = errors.New("unknown entry category")
)

// Category names a kind of journal entry.
type Category string

const (
	CategoryFood       Category = "food"
	CategorySymptom    Category = "symptom"
	CategoryWellness   Category = "wellness"
	CategoryWater      Category = "water"
	CategorySleep      Category = "sleep"
	CategoryExercise   Category = "exercise"
	CategoryMedication Category = "medication"
	CategoryAllergy    Category = "allergy"
)

// Store is the journal record store the server and CLI depend on.
type Store interface {
	SaveFood(ctx context.Context, e *models.FoodEvent) error
	SaveSymptom(ctx context.Context, e *models.SymptomEvent) error
	SaveWellness(ctx context.Context, e *models.WellnessSample) error
	SaveWater(ctx context.Context, e *models.WaterEvent) error
	SaveSleep(ctx context.Context, e *models.SleepSample) error
	SaveExercise(ctx context.Context, e *models.ExerciseEvent) error
	SaveMedication(ctx context.Context, e *models.MedicationLogEvent) error
	SaveAllergy(ctx context.Context, a *models.KnownAllergy) error
	ListFood(ctx context.Context, startDate, endDate string) ([]models.FoodEvent, error)
	ListSymptoms(ctx context.Context, startDate, endDate string) ([]models.SymptomEvent, error)
	ListAllergies(ctx context.Context) ([]models.KnownAllergy, error)
	Delete(ctx context.Context, category Category, id string) error
	Snapshot(ctx context.Context, startDate, endDate string) (models.Journal, error)
	Close() error
}

type SQLiteStorage struct {
	db *gorm.DB
}

var _ Store = (*SQLiteStorage)(nil)

// NewSQLiteStorage opens the database at dbPath with the pure-Go sqlite
// driver and applies pending migrations.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        dbPath,
	}, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	storage := &SQLiteStorage{db: db}
	if err := runMigrations(context.Background(), db); err != nil {
		storage.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	log.WithField("path", dbPath).Debug("journal database ready")
	return storage, nil
}

func (s *SQLiteStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

func (s *SQLiteStorage) create(ctx context.Context, record interface{}, kind string) error {
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to insert %s: %w", kind, err)
	}
	return nil
}

func (s *SQLiteStorage) SaveFood(ctx context.Context, e *models.FoodEvent) error {
	e.ID = newID(e.ID)
	ingredients := e.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}
	return s.create(ctx, &foodRecord{
		ID:           e.ID,
		Date:         e.Date,
		Time:         e.Time,
		MealCategory: string(e.MealCategory),
		Description:  e.Description,
		Ingredients:  ingredients,
		Portion:      e.Portion,
		Notes:        e.Notes,
	}, "food event")
}

func (s *SQLiteStorage) SaveSymptom(ctx context.Context, e *models.SymptomEvent) error {
	e.ID = newID(e.ID)
	return s.create(ctx, &symptomRecord{
		ID:          e.ID,
		Date:        e.Date,
		Time:        e.Time,
		Symptom:     e.Symptom,
		Severity:    string(e.Severity),
		Description: e.Description,
		Triggers:    e.Triggers,
	}, "symptom event")
}

func (s *SQLiteStorage) SaveWellness(ctx context.Context, e *models.WellnessSample) error {
	e.ID = newID(e.ID)
	return s.create(ctx, &wellnessRecord{
		ID:        e.ID,
		Date:      e.Date,
		Overall:   moodToString(e.Overall),
		Morning:   moodToString(e.Morning),
		Afternoon: moodToString(e.Afternoon),
		Evening:   moodToString(e.Evening),
	}, "wellness sample")
}

func (s *SQLiteStorage) SaveWater(ctx context.Context, e *models.WaterEvent) error {
	e.ID = newID(e.ID)
	return s.create(ctx, &waterRecord{ID: e.ID, Date: e.Date, Time: e.Time, AmountMl: e.AmountMl}, "water event")
}

func (s *SQLiteStorage) SaveSleep(ctx context.Context, e *models.SleepSample) error {
	e.ID = newID(e.ID)
	return s.create(ctx, &sleepRecord{ID: e.ID, Date: e.Date, Quality: e.Quality}, "sleep sample")
}

func (s *SQLiteStorage) SaveExercise(ctx context.Context, e *models.ExerciseEvent) error {
	e.ID = newID(e.ID)
	return s.create(ctx, &exerciseRecord{
		ID:              e.ID,
		Date:            e.Date,
		Time:            e.Time,
		Name:            e.Name,
		DurationMinutes: e.DurationMinutes,
	}, "exercise event")
}

func (s *SQLiteStorage) SaveMedication(ctx context.Context, e *models.MedicationLogEvent) error {
	e.ID = newID(e.ID)
	return s.create(ctx, &medicationRecord{
		ID:             e.ID,
		Date:           e.Date,
		Time:           e.Time,
		MedicationName: e.MedicationName,
		Dosage:         e.Dosage,
	}, "medication event")
}

func (s *SQLiteStorage) SaveAllergy(ctx context.Context, a *models.KnownAllergy) error {
	a.ID = newID(a.ID)
	symptoms := a.Symptoms
	if symptoms == nil {
		symptoms = []string{}
	}
	return s.create(ctx, &allergyRecord{ID: a.ID, Name: a.Name, Severity: string(a.Severity), Symptoms: symptoms}, "allergy")
}

// listByDate loads records whose date falls in [startDate, endDate]. Either
// bound may be empty.
func listByDate[R any, M any](ctx context.Context, db *gorm.DB, startDate, endDate, order string, toModel func(R) M) ([]M, error) {
	q := db.WithContext(ctx)
	if startDate != "" {
		q = q.Where("date >= ?", startDate)
	}
	if endDate != "" {
		q = q.Where("date <= ?", endDate)
	}

	var rows []R
	if err := q.Order(order).Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]M, 0, len(rows))
	for _, r := range rows {
		result = append(result, toModel(r))
	}
	return result, nil
}

const (
	byDateTime = "date, time, created_at"
	byDate     = "date, created_at"
)

func (s *SQLiteStorage) ListFood(ctx context.Context, startDate, endDate string) ([]models.FoodEvent, error) {
	out, err := listByDate(ctx, s.db, startDate, endDate, byDateTime, foodRecord.toModel)
	if err != nil {
		return nil, fmt.Errorf("failed to query food events: %w", err)
	}
	return out, nil
}

func (s *SQLiteStorage) ListSymptoms(ctx context.Context, startDate, endDate string) ([]models.SymptomEvent, error) {
	out, err := listByDate(ctx, s.db, startDate, endDate, byDateTime, symptomRecord.toModel)
	if err != nil {
		return nil, fmt.Errorf("failed to query symptom events: %w", err)
	}
	return out, nil
}

func (s *SQLiteStorage) ListAllergies(ctx context.Context) ([]models.KnownAllergy, error) {
	var rows []allergyRecord
	if err := s.db.WithContext(ctx).Order("created_at, name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query allergies: %w", err)
	}
	out := make([]models.KnownAllergy, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}

func recordFor(category Category) (interface{}, error) {
	switch category {
	case CategoryFood:
		return &foodRecord{}, nil
	case CategorySymptom:
		return &symptomRecord{}, nil
	case CategoryWellness:
		return &wellnessRecord{}, nil
	case CategoryWater:
		return &waterRecord{}, nil
	case CategorySleep:
		return &sleepRecord{}, nil
	case CategoryExercise:
		return &exerciseRecord{}, nil
	case CategoryMedication:
		return &medicationRecord{}, nil
	case CategoryAllergy:
		return &allergyRecord{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
}

func (s *SQLiteStorage) Delete(ctx context.Context, category Category, id string) error {
	record, err := recordFor(category)
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Delete(record, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete %s entry: %w", category, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s %s", ErrNotFound, category, id)
	}
	return nil
}

// Snapshot loads every category for the date range in one read
// transaction. Allergies are not dated and are always loaded in full.
// Medications from the day before startDate are loaded separately so a dose
// taken the evening before is active for the first meals of the range.
func (s *SQLiteStorage) Snapshot(ctx context.Context, startDate, endDate string) (models.Journal, error) {
	var j models.Journal

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if j.Food, err = listByDate(ctx, tx, startDate, endDate, byDateTime, foodRecord.toModel); err != nil {
			return fmt.Errorf("failed to query food events: %w", err)
		}
		if j.Symptoms, err = listByDate(ctx, tx, startDate, endDate, byDateTime, symptomRecord.toModel); err != nil {
			return fmt.Errorf("failed to query symptom events: %w", err)
		}
		if j.Wellness, err = listByDate(ctx, tx, startDate, endDate, byDate, wellnessRecord.toModel); err != nil {
			return fmt.Errorf("failed to query wellness samples: %w", err)
		}
		if j.Water, err = listByDate(ctx, tx, startDate, endDate, byDateTime, waterRecord.toModel); err != nil {
			return fmt.Errorf("failed to query water events: %w", err)
		}
		if j.Sleep, err = listByDate(ctx, tx, startDate, endDate, byDate, sleepRecord.toModel); err != nil {
			return fmt.Errorf("failed to query sleep samples: %w", err)
		}
		if j.Exercise, err = listByDate(ctx, tx, startDate, endDate, byDateTime, exerciseRecord.toModel); err != nil {
			return fmt.Errorf("failed to query exercise events: %w", err)
		}
		if j.Medications, err = listByDate(ctx, tx, startDate, endDate, byDateTime, medicationRecord.toModel); err != nil {
			return fmt.Errorf("failed to query medication events: %w", err)
		}
		if prev, ok := dayBefore(startDate); ok {
			if j.EarlierMedications, err = listByDate(ctx, tx, prev, prev, byDateTime, medicationRecord.toModel); err != nil {
				return fmt.Errorf("failed to query earlier medication events: %w", err)
			}
		}
		var allergies []allergyRecord
		if err := tx.Order("created_at, name").Find(&allergies).Error; err != nil {
			return fmt.Errorf("failed to query allergies: %w", err)
		}
		for _, a := range allergies {
			j.Allergies = append(j.Allergies, a.toModel())
		}
		return nil
	})
	if err != nil {
		return models.Journal{}, err
	}

	log.WithFields(log.Fields{
		"start":    startDate,
		"end":      endDate,
		"food":     len(j.Food),
		"symptoms": len(j.Symptoms),
	}).Debug("loaded journal snapshot")
	return j, nil
}

func dayBefore(date string) (string, bool) {
	if date == "" {
		return "", false
	}
	t, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return "", false
	}
	return t.AddDate(0, 0, -1).Format(models.DateLayout), true
}
