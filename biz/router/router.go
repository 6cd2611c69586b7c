package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"github.com/vega-tools/catalog/biz/handler"
	"github.com/vega-tools/catalog/biz/middleware"
)

// Register configures the public storefront routes and the admin API.
func Register(r *server.Hertz, catalog *handler.CatalogHandler, admin *handler.AdminHandler, adminToken string) {
	v1 := r.Group("/api/v1")

	products := v1.Group("/products")
	products.GET("", catalog.ListProducts)
	products.GET("/featured", catalog.FeaturedProducts)
	products.GET("/on-sale", catalog.OnSaleProducts)
	products.GET("/brands", catalog.Brands)
	products.GET("/:slug", catalog.GetProduct)

	categories := v1.Group("/categories")
	categories.GET("", catalog.CategoryTree)
	categories.GET("/featured", catalog.FeaturedCategories)
	categories.GET("/:slug", catalog.GetCategory)
	categories.GET("/:slug/products", catalog.CategoryProducts)

	v1.GET("/config", catalog.PublicConfig)
	v1.GET("/config/homepage", catalog.Homepage)
	v1.GET("/config/app", catalog.AppConfig)
	v1.GET("/settings/:key", catalog.GetSetting)
	v1.GET("/files/*key", catalog.GetFile)

	adminGroup := v1.Group("/admin", middleware.RequireAdminToken(adminToken))
	if writeLock := middleware.WriteLockMw(); writeLock != nil {
		adminGroup.Use(writeLock...)
	}

	adminGroup.GET("/products", admin.ListProducts)
	adminGroup.POST("/products", admin.CreateProduct)
	adminGroup.PUT("/products/:slug", admin.UpdateProduct)
	adminGroup.DELETE("/products/:slug", admin.DeleteProduct)
	adminGroup.POST("/products/:slug/publish", admin.SetProductPublished)

	adminGroup.GET("/categories", admin.ListCategories)
	adminGroup.POST("/categories", admin.CreateCategory)
	adminGroup.PUT("/categories/:slug", admin.UpdateCategory)
	adminGroup.DELETE("/categories/:slug", admin.DeleteCategory)

	adminGroup.GET("/settings", admin.ListSettings)
	adminGroup.POST("/settings", admin.CreateSetting)
	adminGroup.PUT("/settings/:key", admin.UpdateSetting)
	adminGroup.POST("/settings/:key/reset", admin.ResetSetting)
	adminGroup.DELETE("/settings/:key", admin.DeleteSetting)

	images := adminGroup.Group("/owners/:kind/:ref/images")
	images.GET("", admin.ListImages)
	images.POST("", admin.UploadImage)
	images.PUT("/:index", admin.ReplaceImage)
	images.DELETE("/:index", admin.DeleteImage)
	images.DELETE("", admin.DeleteAllImages)
	images.GET("/:index/exists", admin.ImageExists)

	adminGroup.GET("/attachments", admin.ListAttachments)
	adminGroup.POST("/attachments", admin.UploadAttachment)
	adminGroup.DELETE("/attachments/:fileID", admin.DeleteAttachment)

	r.GET("/ping", handler.Ping)
}
