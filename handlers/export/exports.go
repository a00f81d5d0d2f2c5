package export

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/sri-maddineni/college-shortlister/services"
	exportdoc "github.com/sri-maddineni/college-shortlister/services/export"
	"github.com/sri-maddineni/college-shortlister/services/query"
	"github.com/sri-maddineni/college-shortlister/utils/response"
)

// ExportHandler handles document export requests
type ExportHandler struct {
	exports *services.ExportService
}

// NewExportHandler creates a new export handler
func NewExportHandler(exports *services.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// DownloadExport handles GET /api/v1/exports/:format. The query string carries
// the same filters as the record listing.
func (h *ExportHandler) DownloadExport(c *fiber.Ctx) error {
	format, criteria, err := parseRequest(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	doc, err := h.exports.Export(c.UserContext(), format, criteria)
	if err != nil {
		return exportError(c, err)
	}

	return response.Attachment(c, doc.Filename, doc.ContentType, doc.Bytes, doc.Warnings)
}

// ShareExport handles POST /api/v1/exports/:format/share
func (h *ExportHandler) ShareExport(c *fiber.Ctx) error {
	format, criteria, err := parseRequest(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	shared, err := h.exports.Share(c.UserContext(), format, criteria)
	if err != nil {
		if errors.Is(err, services.ErrStorageDisabled) {
			return response.ServiceUnavailable(c, "Sharing is not configured on this server")
		}
		return exportError(c, err)
	}

	return response.Created(c, shared)
}

func parseRequest(c *fiber.Ctx) (exportdoc.Format, query.Criteria, error) {
	format, err := exportdoc.ParseFormat(c.Params("format"))
	if err != nil {
		return "", query.Criteria{}, err
	}
	criteria, err := query.ParseCriteria(c.Queries())
	if err != nil {
		return "", query.Criteria{}, err
	}
	return format, criteria.WithDefaultSort(), nil
}

func exportError(c *fiber.Ctx, err error) error {
	var renderErr *exportdoc.RenderError
	if errors.As(err, &renderErr) {
		return response.ErrorWithDetails(c, fiber.StatusInternalServerError,
			"Failed to render document", "RENDER_ERROR", renderErr.Error())
	}
	return response.InternalServerError(c, "Failed to export records")
}
