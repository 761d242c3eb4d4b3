package main

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/weolbu/settlement_backend/config"
	"github.com/weolbu/settlement_backend/models"
	"github.com/weolbu/settlement_backend/models/reports"
	"github.com/weolbu/settlement_backend/utils"
)

const correlationIDKey = "correlationId"

var validate = validator.New()

// reconcileRequest carries the non-file form fields of a reconciliation run.
type reconcileRequest struct {
	OrderSheet    string `form:"orderSheet" validate:"required"`
	CoachingSheet string `form:"coachingSheet" validate:"required"`
	Year          int    `form:"year" validate:"required,min=2000,max=2100"`
	Month         int    `form:"month" validate:"required,min=1,max=12"`
}

type reconcileResponse struct {
	RunID            string                      `json:"runId"`
	Stats            *reports.ComparisonStats    `json:"stats"`
	DuplicateCount   int                         `json:"duplicateCount"`
	SuspectedMatches []models.SuspectedMatchPair `json:"suspectedMatches"`
}

func requestLogger(c *gin.Context) *logrus.Entry {
	return config.GetLogger().WithFields(logrus.Fields{
		"correlationId": c.GetString(correlationIDKey),
		"path":          c.FullPath(),
	})
}

func openUpload(c *gin.Context, field string) (*excelize.File, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("missing file field %q", field)
	}
	if !strings.HasSuffix(strings.ToLower(fh.Filename), ".xlsx") {
		return nil, fmt.Errorf("invalid file type for %q: only .xlsx files are allowed", field)
	}
	return openWorkbookFromHeader(fh)
}

func openWorkbookFromHeader(fh *multipart.FileHeader) (*excelize.File, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return models.OpenWorkbook(src)
}

// sheetNamesHandler lists the sheet names of one uploaded workbook so the
// client can pick which sheet to reconcile.
func sheetNamesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		f, err := openUpload(c, "file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		defer f.Close()

		c.JSON(http.StatusOK, gin.H{"sheets": f.GetSheetList()})
	}
}

// readBatches decodes both uploaded workbooks into record batches. The engine
// itself only ever sees parsed rows; decode problems stop here.
func readBatches(c *gin.Context, req *reconcileRequest) ([]models.OrderRecord, []models.CoachingRecord, error) {
	if err := c.ShouldBind(req); err != nil {
		return nil, nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, nil, err
	}

	orderFile, err := openUpload(c, "orderFile")
	if err != nil {
		return nil, nil, err
	}
	defer orderFile.Close()
	coachingFile, err := openUpload(c, "coachingFile")
	if err != nil {
		return nil, nil, err
	}
	defer coachingFile.Close()

	orders, err := models.ReadOrderRows(orderFile, req.OrderSheet)
	if err != nil {
		return nil, nil, fmt.Errorf("order file: %w", err)
	}
	coachings, err := models.ReadCoachingRows(coachingFile, req.CoachingSheet)
	if err != nil {
		return nil, nil, fmt.Errorf("coaching file: %w", err)
	}
	return orders, coachings, nil
}

func reconcileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req reconcileRequest
		orders, coachings, err := readBatches(c, &req)
		if err != nil {
			respondBadRequest(c, err)
			return
		}

		run := models.RunComparison(orders, coachings)
		stats := reports.ComputeStats(run.Items, orders, coachings)

		requestLogger(c).WithFields(logrus.Fields{
			"runId":   run.RunID,
			"matched": stats.Matched,
			"onlyInA": stats.OnlyInOrders,
			"onlyInB": stats.OnlyInCoaching,
		}).Info("reconciliation completed")

		c.JSON(http.StatusOK, reconcileResponse{
			RunID:            run.RunID,
			Stats:            stats,
			DuplicateCount:   len(run.DuplicateCases),
			SuspectedMatches: run.SuspectedMatches,
		})
	}
}

// reconcileExportHandler re-runs the reconciliation and streams one of the
// settlement workbooks. Runs are stateless, so the export repeats the
// computation instead of looking anything up.
func reconcileExportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req reconcileRequest
		orders, coachings, err := readBatches(c, &req)
		if err != nil {
			respondBadRequest(c, err)
			return
		}

		kind := reports.ExportKind(c.PostForm("type"))
		run := models.RunComparison(orders, coachings)

		var rows []reports.Row
		switch kind {
		case reports.ExportSettlement:
			rows = reports.SettlementRows(run.Items)
		case reports.ExportUnmatched:
			rows = reports.UnmatchedRows(run.Items, run.SuspectedMatches)
		case reports.ExportSuspected:
			rows = reports.SuspectedMatchRows(run.SuspectedMatches)
		case reports.ExportDuplicates:
			rows = reports.DuplicateRows(run.DuplicateCases)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown export type"})
			return
		}

		f, err := reports.BuildWorkbook(reports.SheetName(kind), reports.Columns(rows), rows)
		if err != nil {
			config.LogError(config.GetLogger(), "uploads", "reconcileExportHandler", "build workbook", kind, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build workbook"})
			return
		}
		defer f.Close()

		filename := reports.ExportFilename(req.Year, req.Month, kind)
		if err := reports.StreamWorkbook(c.Writer, f, filename); err != nil {
			config.LogError(config.GetLogger(), "uploads", "reconcileExportHandler", "stream workbook", filename, err)
		}
	}
}

func respondBadRequest(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
