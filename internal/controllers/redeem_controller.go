package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zaqqye/eduapp_backend/internal/models"
	"github.com/zaqqye/eduapp_backend/internal/registry"
	"github.com/zaqqye/eduapp_backend/internal/ws"
)

type RedeemController struct {
	Registry *registry.Service
	Hub      *ws.AttendanceHub
	Log      *zap.Logger
}

type redeemRequest struct {
	Code string              `json:"code" binding:"required,accesscode"`
	Kind models.ResourceKind `json:"kind"`
}

// Redeem attaches the resource behind a code to the student's view. Attendance
// codes also record the check-in.
func (r *RedeemController) Redeem(c *gin.Context) {
	user := mustUser(c)
	var req redeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()
	res, err := r.Registry.Redeem(ctx, user.UserID, req.Code, req.Kind)
	if err == nil && res.Resource.Kind == models.KindAttendance {
		res, err = r.Registry.CheckIn(ctx, user.UserID, req.Code)
		if err == nil && res.Outcome == registry.OutcomeRedeemed {
			publishCheckIn(r.Hub, res.Resource, &user)
		}
	}
	if err != nil {
		respondError(c, r.Log, err)
		return
	}

	status := http.StatusCreated
	if res.Outcome == registry.OutcomeAlreadyRedeemed {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{
		"outcome":  res.Outcome,
		"message":  res.Message(),
		"resource": viewOf(res.Resource, false),
	})
}

// ListResources is the student's personal view, optionally narrowed by kind.
func (r *RedeemController) ListResources(c *gin.Context) {
	user := mustUser(c)
	kind := models.ResourceKind(strings.ToLower(strings.TrimSpace(c.Query("kind"))))
	if kind != "" && !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be material, quiz or attendance"})
		return
	}
	items, err := r.Registry.PersonalView(c.Request.Context(), user.UserID, kind)
	if err != nil {
		respondError(c, r.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data": viewsOf(items, false),
		"meta": gin.H{"total": len(items), "kind": kind},
	})
}
