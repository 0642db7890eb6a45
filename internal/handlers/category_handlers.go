package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/moneybox-app/internal/database"
	"github.com/valeriaulyamaeva/moneybox-app/models"
)

type categoryRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func CreateCategoryHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromQuery(c)
		if !ok {
			return
		}
		var req categoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, fmt.Errorf("%w: некорректное тело запроса", database.ErrInvalidInput))
			return
		}
		if req.Name == "" {
			respondError(c, fmt.Errorf("%w: название категории обязательно", database.ErrInvalidInput))
			return
		}
		if req.Type != "income" && req.Type != "expense" {
			respondError(c, fmt.Errorf("%w: тип категории должен быть income или expense", database.ErrInvalidInput))
			return
		}

		category := models.Category{
			UserID: userID,
			Name:   req.Name,
			Type:   req.Type,
		}
		if err := database.CreateCategory(pool, &category); err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusCreated, category)
	}
}

func GetCategoriesHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromQuery(c)
		if !ok {
			return
		}
		categories, err := database.GetCategoriesByUserID(pool, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, categories)
	}
}

func UpdateCategoryHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromQuery(c)
		if !ok {
			return
		}
		categoryID, ok := idParam(c, "id")
		if !ok {
			return
		}
		var req categoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, fmt.Errorf("%w: некорректное тело запроса", database.ErrInvalidInput))
			return
		}
		category := models.Category{
			ID:     categoryID,
			UserID: userID,
			Name:   req.Name,
			Type:   req.Type,
		}
		if err := database.UpdateCategory(pool, userID, &category); err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, category)
	}
}

func DeleteCategoryHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromQuery(c)
		if !ok {
			return
		}
		categoryID, ok := idParam(c, "id")
		if !ok {
			return
		}
		if err := database.DeleteCategory(pool, userID, categoryID); err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, gin.H{"message": "Категория удалена"})
	}
}
