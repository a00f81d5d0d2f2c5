package record

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sri-maddineni/college-shortlister/database"
	"github.com/sri-maddineni/college-shortlister/model"
	"github.com/sri-maddineni/college-shortlister/services"
	"github.com/sri-maddineni/college-shortlister/services/export"
	"github.com/sri-maddineni/college-shortlister/services/query"
	"github.com/sri-maddineni/college-shortlister/utils/pdfvalidation"
	"github.com/sri-maddineni/college-shortlister/utils/response"
	"github.com/sri-maddineni/college-shortlister/utils/validation"
)

// MaxImportBytes bounds the size of a pasted JSON import
const MaxImportBytes = 4 << 20

// RecordHandler handles shortlist record requests
type RecordHandler struct {
	records   *services.RecordService
	validator *validation.Validator
	now       func() time.Time
}

// NewRecordHandler creates a new record handler
func NewRecordHandler(records *services.RecordService) *RecordHandler {
	return &RecordHandler{
		records:   records,
		validator: validation.NewValidator(),
		now:       time.Now,
	}
}

// ExamRequest is one required exam of a record request
type ExamRequest struct {
	Exam  string  `json:"exam" validate:"required,exam_kind"`
	Score float64 `json:"score" validate:"gte=0"`
}

// RecordRequest represents the request body for creating or updating a record
type RecordRequest struct {
	InstitutionName     string        `json:"institutionName" validate:"required,max=255"`
	CourseName          string        `json:"courseName" validate:"required,max=255"`
	City                string        `json:"city" validate:"omitempty,max=255"`
	Country             string        `json:"country" validate:"omitempty,max=255"`
	TuitionFee          *float64      `json:"tuitionFee" validate:"required,gte=0"`
	NumberOfSemesters   int           `json:"numberOfSemesters" validate:"required,min=1,max=40"`
	ApplicationDeadline string        `json:"applicationDeadline" validate:"required,calendar_date"`
	AdmissionStatus     string        `json:"admissionStatus" validate:"omitempty,admission_status"`
	RequiredExams       []ExamRequest `json:"requiredExams" validate:"omitempty,unique=Exam,dive"`
	Description         string        `json:"description"`
}

// toRecord converts a validated request. Parse errors cannot happen after validation.
func (req RecordRequest) toRecord() model.Record {
	deadline, _ := model.ParseDate(req.ApplicationDeadline)
	status, _ := model.ParseAdmissionStatus(req.AdmissionStatus)

	exams := make(model.ExamScores, 0, len(req.RequiredExams))
	for _, e := range req.RequiredExams {
		kind, _ := model.ParseExamKind(e.Exam)
		exams = append(exams, model.ExamScore{Exam: kind, Score: e.Score})
	}

	return model.Record{
		InstitutionName: validation.SanitizeString(req.InstitutionName),
		CourseName:      validation.SanitizeString(req.CourseName),
		City:            validation.SanitizeString(req.City),
		Country:         validation.SanitizeString(req.Country),
		TuitionFee:      *req.TuitionFee,
		Semesters:       req.NumberOfSemesters,
		Deadline:        deadline,
		Status:          status,
		Exams:           exams,
		Notes:           validation.SanitizeString(req.Description),
	}
}

// ListRecords handles GET /api/v1/records
func (h *RecordHandler) ListRecords(c *fiber.Ctx) error {
	criteria, err := query.ParseCriteria(c.Queries())
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	records, err := h.records.List(c.UserContext(), criteria.WithDefaultSort())
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch records")
	}

	return response.Success(c, records)
}

// GetRecord handles GET /api/v1/records/:id
func (h *RecordHandler) GetRecord(c *fiber.Ctx) error {
	record, err := h.records.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return recordError(c, err, "Failed to fetch record")
	}

	return response.Success(c, record)
}

// CreateRecord handles POST /api/v1/records
func (h *RecordHandler) CreateRecord(c *fiber.Ctx) error {
	var req RecordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	record, err := h.records.Create(c.UserContext(), req.toRecord())
	if err != nil {
		return recordError(c, err, "Failed to create record")
	}

	return response.Created(c, record)
}

// UpdateRecord handles PUT /api/v1/records/:id
func (h *RecordHandler) UpdateRecord(c *fiber.Ctx) error {
	var req RecordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	record, err := h.records.Update(c.UserContext(), c.Params("id"), req.toRecord())
	if err != nil {
		return recordError(c, err, "Failed to update record")
	}

	return response.SuccessWithMessage(c, "Record updated successfully", record)
}

// DeleteRecord handles DELETE /api/v1/records/:id
func (h *RecordHandler) DeleteRecord(c *fiber.Ctx) error {
	if err := h.records.Delete(c.UserContext(), c.Params("id")); err != nil {
		return recordError(c, err, "Failed to delete record")
	}

	return response.NoContent(c)
}

// ImportRecords handles POST /api/v1/records/import. The body is a JSON array of
// records in the current or any earlier export shape.
func (h *RecordHandler) ImportRecords(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return response.BadRequest(c, "Request body is empty")
	}
	if len(body) > MaxImportBytes {
		return response.Error(c, fiber.StatusRequestEntityTooLarge, "Import is too large", "PAYLOAD_TOO_LARGE")
	}

	records, err := services.DecodeImport(body)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	return h.importRecords(c, records)
}

// ImportPDF handles POST /api/v1/records/import/pdf. The multipart "file" field
// holds a PDF previously exported by this app; its appendix is imported.
func (h *RecordHandler) ImportPDF(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "PDF file is required in the \"file\" field")
	}

	content, result, err := pdfvalidation.ReadPDFFile(file, pdfvalidation.ExportLimits)
	if err != nil {
		return response.InternalServerError(c, "Failed to read uploaded file")
	}
	if !result.Valid {
		return response.BadRequest(c, result.Error)
	}

	records, err := export.ExtractAppendix(content)
	if err != nil {
		if errors.Is(err, export.ErrNoAppendix) {
			return response.BadRequest(c, "The PDF was not exported by College Shortlister")
		}
		return response.BadRequest(c, err.Error())
	}

	return h.importRecords(c, records)
}

func (h *RecordHandler) importRecords(c *fiber.Ctx, records []model.Record) error {
	result, err := h.records.Import(c.UserContext(), records)
	if err != nil {
		return response.InternalServerError(c, "Failed to import records")
	}

	var warnings []string
	for _, skipped := range result.Skipped {
		warnings = append(warnings, skippedWarning(skipped))
	}
	if len(warnings) > 0 {
		return response.SuccessWithWarnings(c, "Import finished with skipped records", result, warnings)
	}
	return response.SuccessWithMessage(c, "Import finished", result)
}

// ListCourses handles GET /api/v1/records/courses
func (h *RecordHandler) ListCourses(c *fiber.Ctx) error {
	courses, err := h.records.Courses(c.UserContext())
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch courses")
	}

	return response.Success(c, courses)
}

// ListDeadlines handles GET /api/v1/records/deadlines?within=14
func (h *RecordHandler) ListDeadlines(c *fiber.Ctx) error {
	within, err := strconv.Atoi(c.Query("within", "14"))
	if err != nil || within < 0 || within > 366 {
		return response.BadRequest(c, "within must be a number of days between 0 and 366")
	}

	digest, err := h.records.DeadlineDigest(c.UserContext(), h.now(), within)
	if err != nil {
		return response.InternalServerError(c, "Failed to build deadline digest")
	}

	return response.Success(c, digest)
}

func recordError(c *fiber.Ctx, err error, fallback string) error {
	var invalid *services.InvalidRecordError
	switch {
	case errors.Is(err, database.ErrRecordNotFound):
		return response.NotFound(c, "Record not found")
	case errors.As(err, &invalid):
		return response.ValidationError(c, validation.ProblemsToMap(invalid.Problems))
	}
	return response.InternalServerError(c, fallback)
}

func skippedWarning(p services.ImportProblem) string {
	name := p.Name
	if name == "" {
		name = "unnamed"
	}
	msg := "record " + strconv.Itoa(p.Index+1) + " (" + name + ") skipped"
	if p.Error != "" {
		return msg + ": " + p.Error
	}
	for i, problem := range p.Problems {
		if i == 0 {
			msg += ": "
		} else {
			msg += "; "
		}
		msg += problem.String()
	}
	return msg
}
