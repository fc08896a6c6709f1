package api

import (
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/gin-gonic/gin"
    "gorm.io/gorm"

    "github.com/classtrack/classtrack-back/internal/auth"
    "github.com/classtrack/classtrack-back/internal/db"
    "github.com/classtrack/classtrack-back/internal/excel"
    "github.com/classtrack/classtrack-back/internal/models"
    "github.com/classtrack/classtrack-back/internal/validate"
)

// scopeStudent returns the student id the listing must be restricted to:
// the caller's own id for students, zero (no restriction) otherwise.
func scopeStudent(c *gin.Context) uint {
    if c.GetString(auth.CtxRole) == models.RoleStudent {
        return c.GetUint(auth.CtxUserID)
    }
    return 0
}

// -------------------- ATTENDANCE --------------------

type CreateAttendanceRequest struct {
    Student uint      `json:"student" binding:"required"`
    Date    time.Time `json:"date" binding:"required"`
    Status  string    `json:"status" binding:"required,oneof=present absent late"`
    Subject string    `json:"subject" binding:"required"`
}

// ListAttendance godoc
// @Summary      List attendance records
// @Description  Students see their own records, teachers and admins see all
// @Tags         attendance
// @Produce      json
// @Success      200 {array}  models.Attendance
// @Failure      401 {object} map[string]string
// @Failure      500 {object} map[string]string
// @Security     BearerAuth
// @Router       /attendance [get]
func ListAttendance(c *gin.Context) {
    records, err := db.ListAttendance(c.Request.Context(), scopeStudent(c))
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch attendance"})
        return
    }
    c.JSON(http.StatusOK, records)
}

// CreateAttendance godoc
// @Summary      Mark attendance
// @Description  Records one attendance entry per student per day
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        body  body  CreateAttendanceRequest  true  "Attendance info"
// @Success      201   {object} models.Attendance
// @Failure      400   {object} map[string]string
// @Failure      403   {object} map[string]string
// @Failure      500   {object} map[string]string
// @Security     BearerAuth
// @Router       /attendance [post]
func CreateAttendance(c *gin.Context) {
    var req CreateAttendanceRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "errors": validate.Errors(err)})
        return
    }

    record := models.Attendance{
        StudentID: req.Student,
        Date:      req.Date.UTC().Truncate(24 * time.Hour),
        Status:    req.Status,
        Subject:   req.Subject,
        // The marker is always the caller, never taken from the body.
        MarkedByID: c.GetUint(auth.CtxUserID),
    }
    if err := db.CreateAttendance(c.Request.Context(), &record); err != nil {
        if errors.Is(err, gorm.ErrDuplicatedKey) {
            c.JSON(http.StatusBadRequest, gin.H{"message": "Attendance already marked for this student on this date"})
            return
        }
        c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to mark attendance"})
        return
    }

    c.JSON(http.StatusCreated, record)
}

// -------------------- MARKS --------------------

type CreateMarksRequest struct {
    Student    uint      `json:"student" binding:"required"`
    Subject    string    `json:"subject" binding:"required"`
    ExamType   string    `json:"exam_type" binding:"required,oneof=quiz midterm final assignment project"`
    Marks      *float64  `json:"marks" binding:"required,gte=0"`
    TotalMarks *float64  `json:"total_marks" binding:"required,gte=0"`
    Date       time.Time `json:"date" binding:"required"`
}

// ListMarks godoc
// @Summary      List marks
// @Description  Students see their own marks, teachers and admins see all
// @Tags         marks
// @Produce      json
// @Success      200 {array}  models.Marks
// @Failure      401 {object} map[string]string
// @Failure      500 {object} map[string]string
// @Security     BearerAuth
// @Router       /marks [get]
func ListMarks(c *gin.Context) {
    records, err := db.ListMarks(c.Request.Context(), scopeStudent(c))
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch marks"})
        return
    }
    c.JSON(http.StatusOK, records)
}

// CreateMarks godoc
// @Summary      Add marks
// @Tags         marks
// @Accept       json
// @Produce      json
// @Param        body  body  CreateMarksRequest  true  "Marks info"
// @Success      201   {object} models.Marks
// @Failure      400   {object} map[string]string
// @Failure      403   {object} map[string]string
// @Failure      500   {object} map[string]string
// @Security     BearerAuth
// @Router       /marks [post]
func CreateMarks(c *gin.Context) {
    var req CreateMarksRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "errors": validate.Errors(err)})
        return
    }

    record := models.Marks{
        StudentID:    req.Student,
        Subject:      req.Subject,
        ExamType:     req.ExamType,
        Marks:        *req.Marks,
        TotalMarks:   *req.TotalMarks,
        Date:         req.Date,
        UploadedByID: c.GetUint(auth.CtxUserID),
    }
    if err := db.CreateMarks(c.Request.Context(), &record); err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to add marks"})
        return
    }

    c.JSON(http.StatusCreated, record)
}

// -------------------- MATERIALS --------------------

type CreateMaterialRequest struct {
    Title       string `json:"title" binding:"required"`
    Description string `json:"description"`
    FileURL     string `json:"file_url" binding:"required"`
    FileName    string `json:"file_name" binding:"required"`
    FileType    string `json:"file_type"`
    Subject     string `json:"subject" binding:"required"`
}

// ListMaterials godoc
// @Summary      List course materials
// @Tags         materials
// @Produce      json
// @Success      200 {array}  models.Material
// @Failure      401 {object} map[string]string
// @Failure      500 {object} map[string]string
// @Security     BearerAuth
// @Router       /materials [get]
func ListMaterials(c *gin.Context) {
    materials, err := db.ListMaterials(c.Request.Context())
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch materials"})
        return
    }
    c.JSON(http.StatusOK, materials)
}

// CreateMaterial godoc
// @Summary      Upload a course material
// @Tags         materials
// @Accept       json
// @Produce      json
// @Param        body  body  CreateMaterialRequest  true  "Material info"
// @Success      201   {object} models.Material
// @Failure      400   {object} map[string]string
// @Failure      403   {object} map[string]string
// @Failure      500   {object} map[string]string
// @Security     BearerAuth
// @Router       /materials [post]
func CreateMaterial(c *gin.Context) {
    var req CreateMaterialRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "errors": validate.Errors(err)})
        return
    }

    material := models.Material{
        Title:        req.Title,
        Description:  req.Description,
        FileURL:      req.FileURL,
        FileName:     req.FileName,
        FileType:     req.FileType,
        Subject:      req.Subject,
        UploadedByID: c.GetUint(auth.CtxUserID),
    }
    if err := db.CreateMaterial(c.Request.Context(), &material); err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to upload material"})
        return
    }

    c.JSON(http.StatusCreated, material)
}

// DeleteMaterial godoc
// @Summary      Delete a course material
// @Description  Allowed to the original uploader or any admin
// @Tags         materials
// @Produce      json
// @Param        id   path  int  true  "Material ID"
// @Success      200  {object} map[string]string
// @Failure      403  {object} map[string]string
// @Failure      404  {object} map[string]string
// @Failure      500  {object} map[string]string
// @Security     BearerAuth
// @Router       /materials/{id} [delete]
func DeleteMaterial(c *gin.Context) {
    id, err := strconv.ParseUint(c.Param("id"), 10, 32)
    if err != nil {
        c.JSON(http.StatusNotFound, gin.H{"message": "Material not found"})
        return
    }

    material, err := db.GetMaterialByID(c.Request.Context(), uint(id))
    if err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            c.JSON(http.StatusNotFound, gin.H{"message": "Material not found"})
            return
        }
        c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch material"})
        return
    }

    caller := c.GetUint(auth.CtxUserID)
    if material.UploadedByID != caller && c.GetString(auth.CtxRole) != models.RoleAdmin {
        c.JSON(http.StatusForbidden, gin.H{"message": "Not authorized"})
        return
    }

    if err := db.DeleteMaterial(c.Request.Context(), material.ID); err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete material"})
        return
    }

    c.JSON(http.StatusOK, gin.H{"message": "Material deleted successfully"})
}

// -------------------- REPORTS --------------------

// ExportReport godoc
// @Summary      Export marks and attendance as Excel
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200 {file} file
// @Failure      403 {object} map[string]string
// @Failure      500 {object} map[string]string
// @Security     BearerAuth
// @Router       /reports/export [get]
func ExportReport(c *gin.Context) {
    marks, err := db.ListMarks(c.Request.Context(), 0)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch marks"})
        return
    }
    attendance, err := db.ListAttendance(c.Request.Context(), 0)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch attendance"})
        return
    }

    f, err := excel.BuildReport(marks, attendance)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to build report"})
        return
    }
    defer f.Close()

    c.Header("Content-Disposition", `attachment; filename="report.xlsx"`)
    c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
    if err := f.Write(c.Writer); err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to write report"})
        return
    }
}
