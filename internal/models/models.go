package models

import "time"

// Roles control read scope and write permission across the API.
const (
    RoleStudent = "student"
    RoleTeacher = "teacher"
    RoleAdmin   = "admin"
)

// Attendance statuses.
const (
    StatusPresent = "present"
    StatusAbsent  = "absent"
    StatusLate    = "late"
)

type User struct {
    ID           uint      `gorm:"primaryKey" json:"id"`
    Name         string    `gorm:"not null" json:"name"`
    Email        string    `gorm:"uniqueIndex;not null" json:"email"`
    PasswordHash string    `gorm:"not null" json:"-"`
    Role         string    `gorm:"not null;default:student" json:"role"`
    CreatedAt    time.Time `json:"created_at"`
}

// Attendance holds one entry per student per day; the composite unique
// index is the only guard against double marking.
type Attendance struct {
    ID         uint      `gorm:"primaryKey" json:"id"`
    StudentID  uint      `gorm:"not null;uniqueIndex:idx_attendance_student_date" json:"student_id"`
    Date       time.Time `gorm:"not null;uniqueIndex:idx_attendance_student_date" json:"date"`
    Status     string    `gorm:"not null" json:"status"`
    Subject    string    `gorm:"not null" json:"subject"`
    MarkedByID uint      `gorm:"not null" json:"marked_by_id"`
    CreatedAt  time.Time `json:"created_at"`

    Student  User `gorm:"foreignKey:StudentID" json:"student"`
    MarkedBy User `gorm:"foreignKey:MarkedByID" json:"marked_by"`
}

type Marks struct {
    ID           uint      `gorm:"primaryKey" json:"id"`
    StudentID    uint      `gorm:"not null;index" json:"student_id"`
    Subject      string    `gorm:"not null" json:"subject"`
    ExamType     string    `gorm:"not null" json:"exam_type"` // quiz, midterm, final, assignment, project
    Marks        float64   `gorm:"not null" json:"marks"`
    TotalMarks   float64   `gorm:"not null" json:"total_marks"`
    Date         time.Time `gorm:"not null" json:"date"`
    UploadedByID uint      `gorm:"not null" json:"uploaded_by_id"`
    CreatedAt    time.Time `json:"created_at"`

    Student    User `gorm:"foreignKey:StudentID" json:"student"`
    UploadedBy User `gorm:"foreignKey:UploadedByID" json:"uploaded_by"`
}

type Material struct {
    ID           uint      `gorm:"primaryKey" json:"id"`
    Title        string    `gorm:"not null" json:"title"`
    Description  string    `json:"description"`
    FileURL      string    `gorm:"not null" json:"file_url"`
    FileName     string    `gorm:"not null" json:"file_name"`
    FileType     string    `json:"file_type"`
    Subject      string    `gorm:"not null" json:"subject"`
    UploadedByID uint      `gorm:"not null" json:"uploaded_by_id"`
    CreatedAt    time.Time `json:"created_at"`

    UploadedBy User `gorm:"foreignKey:UploadedByID" json:"uploaded_by"`
}
