package repo

import (
	"context"
	"errors"
	"fmt"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BuzzLyutic/version-tracker-api/internal/model"
)

// versionRow - строка таблицы versions для gorm
type versionRow struct {
	ID                      int64      `gorm:"primaryKey;autoIncrement"`
	Name                    string     `gorm:"size:255;not null"`
	Priority                int        `gorm:"not null"`
	Summary                 string     `gorm:"type:text"`
	StartDate               model.Date `gorm:"type:date;not null"`
	EndDate                 model.Date `gorm:"type:date;not null"`
	RequirementCompleteDate model.Date `gorm:"type:date"`
	DevelopmentCompleteDate model.Date `gorm:"type:date"`
	TestingCompleteDate     model.Date `gorm:"type:date"`
	Status                  string     `gorm:"size:32;not null"`
	Progress                int        `gorm:"not null;default:0"`
	CreatedAt               model.Date `gorm:"type:date;autoCreateTime:false"`
	UpdatedAt               model.Date `gorm:"type:date;autoUpdateTime:false"`
}

func (versionRow) TableName() string { return "versions" }

func (r versionRow) toModel() model.Version {
	return model.Version{
		ID:                      r.ID,
		Name:                    r.Name,
		Priority:                model.Priority(r.Priority),
		Summary:                 r.Summary,
		StartDate:               r.StartDate,
		EndDate:                 r.EndDate,
		RequirementCompleteDate: r.RequirementCompleteDate,
		DevelopmentCompleteDate: r.DevelopmentCompleteDate,
		TestingCompleteDate:     r.TestingCompleteDate,
		Status:                  model.Status(r.Status),
		Progress:                r.Progress,
		CreatedAt:               r.CreatedAt,
		UpdatedAt:               r.UpdatedAt,
	}
}

func (r *versionRow) apply(in model.VersionInput) {
	r.Name = in.Name
	r.Priority = int(in.Priority)
	r.Summary = in.Summary
	r.StartDate = in.StartDate
	r.EndDate = in.EndDate
	r.RequirementCompleteDate = in.RequirementCompleteDate
	r.DevelopmentCompleteDate = in.DevelopmentCompleteDate
	r.TestingCompleteDate = in.TestingCompleteDate
	r.Status = string(in.Status)
	r.Progress = in.Progress
}

// GormRepo - хранилище на gorm, используется для MySQL и SQLite.
type GormRepo struct {
	db    *gorm.DB
	today func() model.Date
}

func NewGormRepo(db *gorm.DB) *GormRepo {
	return &GormRepo{db: db, today: model.Today}
}

// WithClock replaces the source of "today" used for timestamps.
func (r *GormRepo) WithClock(today func() model.Date) *GormRepo {
	r.today = today
	return r
}

// MySQLDSN builds a DSN with parseTime enabled so DATE columns scan as time.Time.
func MySQLDSN(host string, port int, user, password, database string) string {
	cfg := mysqldriver.NewConfig()
	cfg.User = user
	cfg.Passwd = password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", host, port)
	cfg.DBName = database
	cfg.ParseTime = true
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

// OpenMySQL opens a gorm connection to MySQL.
func OpenMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("repo: connect mysql: %w", err)
	}
	return db, nil
}

// OpenSQLite opens a gorm connection to a SQLite file, or ":memory:".
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("repo: open sqlite %s: %w", path, err)
	}
	return db, nil
}

// AutoMigrate creates or updates the versions table.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&versionRow{}); err != nil {
		return fmt.Errorf("repo: migrate: %w", err)
	}
	return nil
}

func (r *GormRepo) List(ctx context.Context) ([]model.Version, error) {
	var rows []versionRow
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}

	versions := make([]model.Version, 0, len(rows))
	for _, row := range rows {
		versions = append(versions, row.toModel())
	}
	return versions, nil
}

func (r *GormRepo) Get(ctx context.Context, id int64) (model.Version, error) {
	var row versionRow
	err := r.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Version{}, ErrorNotFound
	}
	if err != nil {
		return model.Version{}, err
	}
	return row.toModel(), nil
}

func (r *GormRepo) Create(ctx context.Context, in model.VersionInput) (model.Version, error) {
	today := r.today()
	row := versionRow{CreatedAt: today, UpdatedAt: today}
	row.apply(in)

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return model.Version{}, err
	}
	return row.toModel(), nil
}

// Update читает и сохраняет запись в одной транзакции: RowsAffected в MySQL
// равен нулю для неизмененной строки и не годится для проверки существования.
func (r *GormRepo) Update(ctx context.Context, id int64, in model.VersionInput) (model.Version, error) {
	var row versionRow
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&row, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrorNotFound
			}
			return err
		}
		row.apply(in)
		row.UpdatedAt = r.today()
		return tx.Save(&row).Error
	})
	if err != nil {
		return model.Version{}, err
	}
	return row.toModel(), nil
}

func (r *GormRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&versionRow{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrorNotFound
	}
	return nil
}
