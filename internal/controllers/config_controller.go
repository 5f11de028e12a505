package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zaqqye/eduapp_backend/internal/config"
	"github.com/zaqqye/eduapp_backend/internal/registry"
)

type ConfigController struct {
	Cfg      *config.Config
	Registry *registry.Service
}

func (cc *ConfigController) Get(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"access_code_length": cc.Registry.CodeLength(),
		"max_upload_bytes":   cc.Cfg.MaxUploadBytes(),
		"object_storage":     cc.Cfg.StorageDriver == "oss",
		"quiz_options": gin.H{
			"min": registry.MinQuizOptions,
			"max": registry.MaxQuizOptions,
		},
		"schema_version": 1,
	})
}

func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
