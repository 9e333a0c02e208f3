package delivery

import (
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"

	"optiledger-backend/internal/ingest/domain"
	ingestdto "optiledger-backend/internal/ingest/dto"
	"optiledger-backend/internal/ingest/usecase"
	"optiledger-backend/pkg/mailparse"

	"github.com/gin-gonic/gin"
)

// IngestHandler handles inbound email webhook requests
type IngestHandler struct {
	ingestUsecase usecase.IngestUsecase
}

// NewIngestHandler creates a new IngestHandler
func NewIngestHandler(ingestUsecase usecase.IngestUsecase) *IngestHandler {
	return &IngestHandler{
		ingestUsecase: ingestUsecase,
	}
}

// IngestEmail accepts one inbound email and runs the full pipeline. A
// processed email always answers 200 with the result body, even when it was
// dead-lettered: relays must not retry what the pipeline already decided on.
// POST /api/ingest/email
func (h *IngestHandler) IngestEmail(c *gin.Context) {
	contentType := c.ContentType()
	if contentType == "message/rfc822" || strings.HasPrefix(contentType, "text/") {
		h.ingestRawMessage(c)
		return
	}

	var req ingestdto.IngestEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	accountID := req.AccountID
	if accountID == "" {
		accountID = c.GetHeader("X-Account-ID")
	}
	if accountID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "account_id required"})
		return
	}

	email := domain.InboundEmail{
		Sender:        req.Sender,
		Subject:       req.Subject,
		HTMLBody:      req.HTMLBody,
		PlainTextBody: req.PlainTextBody,
	}
	for _, att := range req.Attachments {
		data, err := base64.StdEncoding.DecodeString(att.Data)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "attachment " + att.Filename + " is not valid base64"})
			return
		}
		email.Attachments = append(email.Attachments, domain.Attachment{
			Filename:    att.Filename,
			ContentType: att.ContentType,
			Data:        data,
		})
	}

	result := h.ingestUsecase.Ingest(c.Request.Context(), accountID, email)
	c.JSON(http.StatusOK, result)
}

// ingestRawMessage decodes an unparsed rfc822 body posted by a mail relay
func (h *IngestHandler) ingestRawMessage(c *gin.Context) {
	accountID := c.GetHeader("X-Account-ID")
	if accountID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-Account-ID header required for raw messages"})
		return
	}

	email, err := mailparse.Parse(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "decode message: " + err.Error()})
		return
	}

	result := h.ingestUsecase.Ingest(c.Request.Context(), accountID, *email)
	c.JSON(http.StatusOK, result)
}

// GetFailures lists dead-lettered emails for the review queue
// GET /api/ingest/failures?kind=manual_review&limit=20&offset=0
func (h *IngestHandler) GetFailures(c *gin.Context) {
	accountID := c.GetString("accountID")

	var kind *string
	if k := c.Query("kind"); k != "" {
		kind = &k
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	failures, total, err := h.ingestUsecase.ListFailures(accountID, kind, limit, offset)
	if err != nil {
		if err.Error() == "invalid failure kind" {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, ingestdto.FailuresResponse{
		Failures: failures,
		Limit:    limit,
		Offset:   offset,
		Total:    total,
	})
}
