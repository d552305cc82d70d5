package shift

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hsato-11/teamcond/config"
	"github.com/hsato-11/teamcond/internal/middleware"
	"github.com/hsato-11/teamcond/pkg/responses"
	"github.com/hsato-11/teamcond/pkg/validator"
)

var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

type ShiftController struct {
	repo   ShiftRepository
	config *config.Config
}

func NewShiftController(repo ShiftRepository, cfg *config.Config) *ShiftController {
	return &ShiftController{repo: repo, config: cfg}
}

// Submit godoc
// @Summary Submit shift availability
// @Description One start/end time applied to every selected date; dates may span months
// @Tags Shifts
// @Accept json
// @Produce json
// @Param shift body SubmitShiftRequest true "Availability"
// @Success 201 {object} responses.SuccessResponse{data=SubmitShiftResponse}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Router /shifts [post]
// @Security BearerAuth
func (sc *ShiftController) Submit(c *gin.Context) {
	var req SubmitShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	sessionName, err := middleware.GetNameFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}

	name := sessionName
	if req.Name != "" && req.Name != sessionName {
		if !middleware.IsAdmin(c) {
			responses.Forbidden(c, "Only admins can submit shifts for someone else")
			return
		}
		name = req.Name
	}

	entries := make([]ShiftEntry, 0, len(req.Dates))
	for _, date := range req.Dates {
		entries = append(entries, ShiftEntry{
			Name:  name,
			Month: date[:7],
			Date:  date,
			Start: req.Start,
			End:   req.End,
		})
	}

	if err := sc.repo.CreateEntries(entries); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to save shifts", nil)
		return
	}
	logrus.WithFields(logrus.Fields{"name": name, "days": len(entries)}).Info("shift submission accepted")

	responses.SendSuccess(c, http.StatusCreated,
		fmt.Sprintf("Accepted %d shift day(s)", len(entries)),
		SubmitShiftResponse{Name: name, Accepted: len(entries), Entries: entries})
}

// ListMonth godoc
// @Summary List a month's submitted shifts
// @Tags Shifts
// @Produce json
// @Param month path string true "Month (YYYY-MM)"
// @Success 200 {object} responses.SuccessResponse{data=[]ShiftEntry}
// @Failure 400 {object} responses.ErrorResponse
// @Router /shifts/{month} [get]
// @Security BearerAuth
func (sc *ShiftController) ListMonth(c *gin.Context) {
	month := c.Param("month")
	if !monthPattern.MatchString(month) {
		responses.BadRequest(c, "Invalid month format, expected YYYY-MM")
		return
	}

	entries, err := sc.repo.ListByMonth(month)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve shifts", nil)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Shifts retrieved successfully", entries)
}

// ExportMonth godoc
// @Summary Download a month's shifts as CSV
// @Description UTF-8 CSV with BOM so spreadsheet apps open it cleanly
// @Tags Shifts
// @Produce text/csv
// @Param month path string true "Month (YYYY-MM)"
// @Success 200 {string} string "CSV payload"
// @Failure 400 {object} responses.ErrorResponse
// @Router /shifts/{month}/export [get]
// @Security BearerAuth
func (sc *ShiftController) ExportMonth(c *gin.Context) {
	month := c.Param("month")
	if !monthPattern.MatchString(month) {
		responses.BadRequest(c, "Invalid month format, expected YYYY-MM")
		return
	}

	entries, err := sc.repo.ListByMonth(month)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve shifts", nil)
		return
	}

	payload, err := RenderCSV(entries)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to render CSV", nil)
		return
	}

	filename := fmt.Sprintf("shift_data_%s.csv", month)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", payload)
}

// RenderCSV serializes shift entries with a UTF-8 BOM so Excel detects the
// encoding.
func RenderCSV(entries []ShiftEntry) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write([]byte{0xEF, 0xBB, 0xBF})

	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"name", "date", "start", "end"}); err != nil {
		return nil, err
	}
	for _, e := range entries {
		if err := w.Write([]string{e.Name, e.Date, e.Start, e.End}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
