package admin

import "github.com/gin-gonic/gin"

// crud is an entity with a table, a create-or-update form and a confirmed
// delete.
type crud interface {
	List(c *gin.Context)
	New(c *gin.Context)
	Create(c *gin.Context)
	Edit(c *gin.Context)
	Update(c *gin.Context)
	ConfirmDelete(c *gin.Context)
	Delete(c *gin.Context)
}

func registerCRUD(g *gin.RouterGroup, h crud) {
	g.GET("", h.List)
	g.GET("/new", h.New)
	g.POST("", h.Create)
	g.GET("/:id", h.Edit)
	g.POST("/:id", h.Update)
	g.GET("/:id/delete", h.ConfirmDelete)
	g.POST("/:id/delete", h.Delete)
}

// Register mounts every admin collection under g, which is expected to be
// /admin behind authentication.
func Register(g *gin.RouterGroup, d *Deps) {
	ecommerce := g.Group("/ecommerce")

	products := NewProductHandlers(d)
	pg := ecommerce.Group("/products")
	registerCRUD(pg, products)
	pg.POST("/:id/images/:image/delete", products.DeleteImage)

	categories := NewCategoryHandlers(d)
	cg := ecommerce.Group("/categories")
	cg.GET("/options", categories.Options)
	registerCRUD(cg, categories)

	registerCRUD(ecommerce.Group("/discounts"), NewDiscountHandlers(d))

	orders := NewOrderHandlers(d)
	og := ecommerce.Group("/orders")
	og.GET("", orders.List)
	og.GET("/:id", orders.Detail)
	og.POST("/:id/status", orders.Status)
	og.GET("/:id/delete", orders.ConfirmDelete)
	og.POST("/:id/delete", orders.Delete)

	ecommerce.GET("/transactions", NewTransactionHandlers(d).List)

	registerCRUD(g.Group("/api-keys"), NewAPIKeyHandlers(d))
}
