package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hakwon-labs/academy-insight-api/internal/service"
	appErrors "github.com/hakwon-labs/academy-insight-api/pkg/errors"
	"github.com/hakwon-labs/academy-insight-api/pkg/response"
	"github.com/hakwon-labs/academy-insight-api/pkg/storage"
)

// ReportHandler exposes the public share endpoints: no authentication, access
// is granted by the token alone.
type ReportHandler struct {
	shares *service.ReportShareService
	signer *storage.SignedURLSigner
	files  *storage.LocalStorage
}

// NewReportHandler constructs ReportHandler. signer and files may be nil when
// document storage is not configured; downloads then always 404.
func NewReportHandler(shares *service.ReportShareService, signer *storage.SignedURLSigner, files *storage.LocalStorage) *ReportHandler {
	return &ReportHandler{shares: shares, signer: signer, files: files}
}

// Resolve godoc
// @Summary Resolve a share token into its report content
// @Tags Reports
// @Produce json
// @Param token path string true "Share token"
// @Success 200 {object} response.Envelope
// @Router /reports/{token} [get]
func (h *ReportHandler) Resolve(c *gin.Context) {
	view, err := h.shares.Resolve(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Download godoc
// @Summary Download a rendered report document
// @Tags Reports
// @Produce application/pdf
// @Param token query string true "Signed download token"
// @Success 200 {file} file
// @Router /reports/download [get]
func (h *ReportHandler) Download(c *gin.Context) {
	if h.signer == nil || h.files == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "document storage not configured"))
		return
	}
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token required"))
		return
	}
	_, relPath, _, err := h.signer.Parse(token, false)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid download token"))
		return
	}
	file, err := h.files.Open(relPath)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "report document not found"))
		return
	}
	defer file.Close() //nolint:errcheck

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to read report document"))
		return
	}
	c.Header("Content-Disposition", "attachment; filename=report.pdf")
	c.DataFromReader(http.StatusOK, info.Size(), "application/pdf", file, nil)
}
