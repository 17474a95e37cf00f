package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/planwise/planwise/config"
	"github.com/planwise/planwise/utils"
)

// MetaController answers the unauthenticated service endpoints.
type MetaController struct{}

func NewMetaController() *MetaController { return &MetaController{} }

// Banner identifies the service and lists the sign-in providers that are configured.
func (m *MetaController) Banner(ctx *gin.Context) {
	cfg := config.Get()
	providers := []string{}
	for _, p := range []string{providerGitHub, providerGoogle} {
		if _, err := oauthConfig(p); err == nil {
			providers = append(providers, p)
		}
	}
	utils.Success(ctx, gin.H{
		"name":            cfg.AppName,
		"version":         cfg.AppVersion,
		"oauth_providers": providers,
	})
}

func (m *MetaController) Health(ctx *gin.Context) {
	utils.Success(ctx, gin.H{"status": "healthy"})
}
