package v1

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"prepost/internal/exporter"
	"prepost/internal/model"
	"prepost/internal/service/audit"
)

// AuditResponse is returned after a successful run.
type AuditResponse struct {
	RunID         string              `json:"runId"`
	TotalRows     int                 `json:"totalRows"`
	OKRows        int                 `json:"okRows"`
	MismatchRows  int                 `json:"mismatchRows"`
	MissingRows   int                 `json:"missingRows"`
	Counts        []model.StatusCount `json:"counts"`
	PreFiles      int                 `json:"preFiles"`
	PostFiles     int                 `json:"postFiles"`
	RejectedFiles []string            `json:"rejectedFiles"`
	DownloadURL   string              `json:"downloadUrl"`
}

// RunAudit executes the reconciliation pipeline over the uploaded
// snapshot files and registers the generated report for download.
// POST /api/audit  (multipart, file fields "pre" and "post")
func (h *Handler) RunAudit(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data"})
		return
	}

	preDocs, preNames, preRejected, err := collectDocuments(form.File["pre"], "precheck")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	postDocs, postNames, postRejected, err := collectDocuments(form.File["post"], "postcheck")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rejected := append(preRejected, postRejected...)

	if len(preDocs) == 0 && len(postDocs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no precheck or postcheck files uploaded"})
		return
	}

	runID := uuid.New().String()
	logID, err := h.store.CreateAuditRun(runID, len(preDocs), len(postDocs),
		strings.Join(preNames, ", "), strings.Join(postNames, ", "))
	if err != nil {
		log.Printf("create audit run log failed: %v", err)
	}

	result, err := audit.Run(preDocs, postDocs)
	if err != nil {
		h.failRun(logID, err)
		var malformed *audit.MalformedInputError
		if errors.As(err, &malformed) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "file": malformed.File})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	file, err := exporter.NewWriter().Write(result.Full, result.Action)
	if err != nil {
		h.failRun(logID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report: " + err.Error()})
		return
	}
	defer file.Close()

	tempPath := filepath.Join(os.TempDir(), fmt.Sprintf("prepost_audit_%d_%d.xlsx", time.Now().UnixNano(), os.Getpid()))
	if err := file.SaveAs(tempPath); err != nil {
		_ = os.Remove(tempPath)
		h.failRun(logID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to write report: " + err.Error()})
		return
	}

	okRows, mismatchRows, missingRows := categorize(result.Summary)
	if logID > 0 {
		if err := h.store.CompleteAuditRun(logID, result.Summary.Total, okRows, mismatchRows, missingRows); err != nil {
			log.Printf("complete audit run log failed: %v", err)
		}
	}

	token := h.downloads.put(tempPath, h.downloadTTL)

	c.JSON(http.StatusOK, AuditResponse{
		RunID:         runID,
		TotalRows:     result.Summary.Total,
		OKRows:        okRows,
		MismatchRows:  mismatchRows,
		MissingRows:   missingRows,
		Counts:        result.Summary.Counts,
		PreFiles:      len(preDocs),
		PostFiles:     len(postDocs),
		RejectedFiles: rejected,
		DownloadURL:   "/api/audit/download/" + token,
	})
}

// DownloadReport streams a previously generated report.
// GET /api/audit/download/:token
func (h *Handler) DownloadReport(c *gin.Context) {
	token := c.Param("token")
	item, ok := h.downloads.get(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "download expired or not found"})
		return
	}
	c.FileAttachment(item.filePath, "Network_Audit.xlsx")
}

func (h *Handler) failRun(logID int64, err error) {
	if logID <= 0 {
		return
	}
	if storeErr := h.store.FailAuditRun(logID, err.Error()); storeErr != nil {
		log.Printf("fail audit run log failed: %v", storeErr)
	}
}

// collectDocuments loads uploaded files whose names carry the role prefix
// (case-insensitive) fully into memory. Files with a foreign prefix are
// rejected here so the engine never sees them.
func collectDocuments(files []*multipart.FileHeader, prefix string) (docs []audit.Document, names, rejected []string, err error) {
	for _, fh := range files {
		if !strings.HasPrefix(strings.ToLower(fh.Filename), prefix) {
			rejected = append(rejected, fh.Filename)
			continue
		}

		src, err := fh.Open()
		if err != nil {
			return nil, nil, nil, fmt.Errorf("read upload %q: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return nil, nil, nil, fmt.Errorf("read upload %q: %w", fh.Filename, err)
		}

		docs = append(docs, audit.Document{FileName: fh.Filename, Reader: bytes.NewReader(data)})
		names = append(names, fh.Filename)
	}
	return docs, names, rejected, nil
}

// categorize folds the per-status counts into the three dashboard buckets.
func categorize(summary model.Summary) (okRows, mismatchRows, missingRows int) {
	for _, sc := range summary.Counts {
		switch {
		case sc.Status == model.StatusOK:
			okRows += sc.Count
		case strings.HasPrefix(sc.Status, model.MismatchPrefix):
			mismatchRows += sc.Count
		case sc.Status == model.StatusMissingPre, sc.Status == model.StatusMissingPost:
			missingRows += sc.Count
		}
	}
	return okRows, mismatchRows, missingRows
}
