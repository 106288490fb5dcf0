package api

import (
	"net/http"
	authHandler "outreach-server/internal/auth/handler"
	campaignHandler "outreach-server/internal/campaign/handler"

	"github.com/gin-gonic/gin"
)

type API struct {
	router          *gin.RouterGroup
	authHandler     authHandler.Handler
	campaignHandler campaignHandler.Handler
}

func New(router *gin.RouterGroup, authHandler authHandler.Handler, campaignHandler campaignHandler.Handler) API {
	return API{
		router:          router,
		authHandler:     authHandler,
		campaignHandler: campaignHandler,
	}
}

func (a *API) RegisterRoutes() {
	a.Health()
	apiGroup := a.router.Group("/api", a.authHandler.HandleJWTMiddleware)
	{
		campaigns := apiGroup.Group("/campaigns")
		campaigns.POST("", a.campaignHandler.HandleCreateCampaign)
		campaigns.POST("/import", a.campaignHandler.HandleImportCampaign)
		campaigns.GET("", a.campaignHandler.HandleListCampaigns)
		campaigns.GET("/:campaign_id", a.campaignHandler.HandleGetCampaign)
		campaigns.DELETE("/:campaign_id", a.campaignHandler.HandleDeleteCampaign)
		campaigns.POST("/:campaign_id/start", a.campaignHandler.HandleStartCampaign)
		campaigns.POST("/:campaign_id/pause", a.campaignHandler.HandlePauseCampaign)
		campaigns.GET("/:campaign_id/status", a.campaignHandler.HandleGetCampaignStatus)
		campaigns.GET("/:campaign_id/recipients", a.campaignHandler.HandleListRecipients)
		campaigns.DELETE("/:campaign_id/recipients/:recipient_id", a.campaignHandler.HandleRemoveRecipient)
		campaigns.GET("/:campaign_id/activity", a.campaignHandler.HandleListActivity)

		apiGroup.GET("/dashboard", a.campaignHandler.HandleGetDashboard)
		apiGroup.GET("/quota", a.campaignHandler.HandleGetQuota)
	}
}

func (a *API) Health() {
	a.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
}
