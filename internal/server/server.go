package server

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/idilsaglam/phonebook/internal/model"
	"github.com/idilsaglam/phonebook/internal/store/memstore"
)

// NewRouter builds the REST surface of the dev store server:
//
//	GET    /api/persons
//	POST   /api/persons
//	PUT    /api/persons/:id
//	DELETE /api/persons/:id
//
// PUT on a missing id answers a JSON 404, not a dropped connection;
// clients are expected to inspect the status.
func NewRouter(store *memstore.Store) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.GET("/persons", listPersons(store))
	api.POST("/persons", createPerson(store))
	api.PUT("/persons/:id", replacePerson(store))
	api.DELETE("/persons/:id", deletePerson(store))
	return r
}

func listPersons(store *memstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, store.List())
	}
}

func createPerson(store *memstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var draft model.Draft
		if err := c.ShouldBindJSON(&draft); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed person payload"})
			return
		}
		draft = draft.Trimmed()
		if draft.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is missing"})
			return
		}
		if draft.Number == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "number is missing"})
			return
		}
		created := store.Create(draft)
		slog.Info("person created", "id", created.ID, "name", created.Name)
		c.JSON(http.StatusCreated, created)
	}
}

func replacePerson(store *memstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		var p model.Person
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed person payload"})
			return
		}
		p.Name = strings.TrimSpace(p.Name)
		p.Number = strings.TrimSpace(p.Number)
		updated, ok := store.Replace(id, p)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "person not found"})
			return
		}
		slog.Info("person replaced", "id", id)
		c.JSON(http.StatusOK, updated)
	}
}

func deletePerson(store *memstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if !store.Delete(id) {
			c.JSON(http.StatusNotFound, gin.H{"error": "person not found"})
			return
		}
		slog.Info("person deleted", "id", id)
		c.Status(http.StatusNoContent)
	}
}
