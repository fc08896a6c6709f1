package db

import (
    "context"
    "fmt"
    "log"
    "time"

    "gorm.io/driver/postgres"
    "gorm.io/gorm"

    "github.com/classtrack/classtrack-back/internal/models"
)

var DB *gorm.DB

func InitDB(dsn string) {
    var err error
    // TranslateError maps driver unique-violation errors to gorm.ErrDuplicatedKey
    DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
    if err != nil {
        log.Fatalf("failed to connect database: %v", err)
    }

    if err = Migrate(); err != nil {
        log.Fatalf("failed to migrate database: %v", err)
    }

    fmt.Println("✅ Database connected and migrated")
}

// Migrate creates/updates tables automatically.
func Migrate() error {
    return DB.AutoMigrate(
        &models.User{},
        &models.Attendance{},
        &models.Marks{},
        &models.Material{},
    )
}

func PingDB() error {
    sqlDB, err := DB.DB()
    if err != nil {
        return err
    }
    return sqlDB.Ping()
}

// -------------------- USERS --------------------

func CreateUser(ctx context.Context, u *models.User) error {
    return DB.WithContext(ctx).Create(u).Error
}

func GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
    var user models.User
    if err := DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
        return nil, err
    }
    return &user, nil
}

func GetUserByID(ctx context.Context, id uint) (*models.User, error) {
    var user models.User
    if err := DB.WithContext(ctx).First(&user, id).Error; err != nil {
        return nil, err
    }
    return &user, nil
}

// -------------------- ATTENDANCE --------------------

func CreateAttendance(ctx context.Context, a *models.Attendance) error {
    return DB.WithContext(ctx).Create(a).Error
}

// ListAttendance returns all records, or only the given student's when
// studentID is non-zero. Student and marker are joined for display.
func ListAttendance(ctx context.Context, studentID uint) ([]models.Attendance, error) {
    records := make([]models.Attendance, 0)
    tx := DB.WithContext(ctx).Preload("Student").Preload("MarkedBy")
    if studentID != 0 {
        tx = tx.Where("student_id = ?", studentID)
    }
    if err := tx.Order("date DESC").Find(&records).Error; err != nil {
        return nil, err
    }
    return records, nil
}

// CountAttendanceByStatus tallies records for a single day.
func CountAttendanceByStatus(ctx context.Context, day time.Time) (map[string]int64, error) {
    type row struct {
        Status string
        Count  int64
    }
    var rows []row
    err := DB.WithContext(ctx).Model(&models.Attendance{}).
        Select("status, count(*) as count").
        Where("date = ?", day).
        Group("status").
        Scan(&rows).Error
    if err != nil {
        return nil, err
    }
    counts := make(map[string]int64, len(rows))
    for _, r := range rows {
        counts[r.Status] = r.Count
    }
    return counts, nil
}

// -------------------- MARKS --------------------

func CreateMarks(ctx context.Context, m *models.Marks) error {
    return DB.WithContext(ctx).Create(m).Error
}

func ListMarks(ctx context.Context, studentID uint) ([]models.Marks, error) {
    records := make([]models.Marks, 0)
    tx := DB.WithContext(ctx).Preload("Student").Preload("UploadedBy")
    if studentID != 0 {
        tx = tx.Where("student_id = ?", studentID)
    }
    if err := tx.Order("date DESC").Find(&records).Error; err != nil {
        return nil, err
    }
    return records, nil
}

// -------------------- MATERIALS --------------------

func CreateMaterial(ctx context.Context, m *models.Material) error {
    return DB.WithContext(ctx).Create(m).Error
}

func ListMaterials(ctx context.Context) ([]models.Material, error) {
    materials := make([]models.Material, 0)
    if err := DB.WithContext(ctx).Preload("UploadedBy").Order("created_at DESC").Find(&materials).Error; err != nil {
        return nil, err
    }
    return materials, nil
}

func GetMaterialByID(ctx context.Context, id uint) (*models.Material, error) {
    var material models.Material
    if err := DB.WithContext(ctx).First(&material, id).Error; err != nil {
        return nil, err
    }
    return &material, nil
}

func DeleteMaterial(ctx context.Context, id uint) error {
    return DB.WithContext(ctx).Delete(&models.Material{}, id).Error
}
