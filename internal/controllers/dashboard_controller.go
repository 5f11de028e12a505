package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zaqqye/eduapp_backend/internal/config"
	"github.com/zaqqye/eduapp_backend/internal/models"
)

const SignatureHeader = "X-Dashboard-Signature"

type DashboardController struct {
	DB  *gorm.DB
	Cfg *config.Config
	Log *zap.Logger
}

// Get returns the tab layout of the role in the path. When the caller is
// authenticated, user placeholders are filled in.
func (d *DashboardController) Get(c *gin.Context) {
	d.serve(c, strings.ToLower(c.Param("role")))
}

// Mine serves the layout of the authenticated user's own role.
func (d *DashboardController) Mine(c *gin.Context) {
	d.serve(c, mustUser(c).Role)
}

func (d *DashboardController) serve(c *gin.Context, role string) {
	if !IsValidRole(role) {
		c.JSON(http.StatusNotFound, gin.H{"error": "dashboard not found"})
		return
	}

	var scr models.DashboardScreen
	err := d.DB.Where("role = ? AND active = ?", role, true).
		Order("screen_version DESC").
		First(&scr).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "dashboard not found"})
			return
		}
		respondError(c, d.Log, errors.Wrap(err, "load dashboard"))
		return
	}
	d.respondRawWithSignature(c, scr.Payload)
}

func (d *DashboardController) respondRawWithSignature(c *gin.Context, raw []byte) {
	u, _ := currentUser(c)
	raw = applyUserPlaceholders(raw, u)
	if sig := signPayload(d.Cfg.DashboardHMACSecret, raw); sig != "" {
		c.Header(SignatureHeader, sig)
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}

// signPayload is the hex HMAC-SHA256 of raw, or empty without a secret.
func signPayload(secret string, raw []byte) string {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return ""
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(raw)
	return hex.EncodeToString(mac.Sum(nil))
}

// applyUserPlaceholders fills the {{...}} tokens from u. Anonymous callers get
// them blanked.
func applyUserPlaceholders(data []byte, u *models.User) []byte {
	if u == nil {
		u = &models.User{}
	}
	r := strings.NewReplacer(
		"{{full_name}}", jsonEscape(u.FullName),
		"{{role}}", u.Role,
		"{{user_id}}", u.UserID,
	)
	return []byte(r.Replace(string(data)))
}

// jsonEscape makes s safe to splice inside a JSON string literal.
func jsonEscape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)
	return r.Replace(s)
}
