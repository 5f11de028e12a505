package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/zaqqye/eduapp_backend/internal/models"
	"github.com/zaqqye/eduapp_backend/internal/registry"
	"github.com/zaqqye/eduapp_backend/internal/ws"
)

const (
	defaultQRSize = 256
	maxQRSize     = 1024
)

type AttendanceController struct {
	Registry *registry.Service
	Hub      *ws.AttendanceHub
	Log      *zap.Logger
}

type createSessionRequest struct {
	ClassName string `json:"class_name" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Title     string `json:"title"`
}

type checkInRequest struct {
	Code string `json:"code" binding:"required,accesscode"`
}

func (a *AttendanceController) Create(c *gin.Context) {
	user := mustUser(c)
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	title := req.Title
	if title == "" {
		title = req.ClassName
	}
	rec, err := a.Registry.Register(c.Request.Context(), user.UserID, title, registry.AttendancePayload{
		ClassName:   req.ClassName,
		SessionDate: req.Date,
	})
	if err != nil {
		respondError(c, a.Log, err)
		return
	}
	c.JSON(http.StatusCreated, viewOf(rec, true))
}

func (a *AttendanceController) ListMine(c *gin.Context) {
	user := mustUser(c)
	opts := listOptions(c)
	items, total, err := a.Registry.ListByOwner(c.Request.Context(), user.UserID, models.KindAttendance, opts)
	if err != nil {
		respondError(c, a.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": viewsOf(items, true), "meta": listMeta(opts, total)})
}

func (a *AttendanceController) owned(c *gin.Context) (*models.Resource, bool) {
	user := mustUser(c)
	id, ok := idParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return nil, false
	}
	rec, err := a.Registry.GetOwned(c.Request.Context(), id, user.UserID, models.KindAttendance)
	if err != nil {
		respondError(c, a.Log, err)
		return nil, false
	}
	return rec, true
}

// Students lists who checked in to a session, in arrival order.
func (a *AttendanceController) Students(c *gin.Context) {
	rec, ok := a.owned(c)
	if !ok {
		return
	}
	rows, err := a.Registry.Attendees(c.Request.Context(), rec.ID)
	if err != nil {
		respondError(c, a.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data": rows,
		"meta": gin.H{"session": viewOf(rec, true), "total": len(rows)},
	})
}

// QR renders the session code as a PNG for students to scan.
func (a *AttendanceController) QR(c *gin.Context) {
	rec, ok := a.owned(c)
	if !ok {
		return
	}
	size := defaultQRSize
	if v := c.Query("size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= maxQRSize {
			size = n
		}
	}
	png, err := qrcode.Encode(rec.Code, qrcode.Medium, size)
	if err != nil {
		respondError(c, a.Log, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

// CheckIn marks the student present on the session behind the code and
// notifies the owning teacher's live view.
func (a *AttendanceController) CheckIn(c *gin.Context) {
	user := mustUser(c)
	var req checkInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := a.Registry.CheckIn(c.Request.Context(), user.UserID, req.Code)
	if err != nil {
		respondError(c, a.Log, err)
		return
	}
	if res.Outcome == registry.OutcomeRedeemed {
		publishCheckIn(a.Hub, res.Resource, &user)
	}
	c.JSON(http.StatusOK, gin.H{
		"outcome":  res.Outcome,
		"message":  res.Message(),
		"resource": viewOf(res.Resource, false),
	})
}
