package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/moneybox-app/internal/database"
	"github.com/valeriaulyamaeva/moneybox-app/utils"
)

// Каждая операция отвечает единой формой: {"success": true, "data": …}
// либо {"success": false, "error": "…"}. Наружу уходит только короткое
// человекочитаемое сообщение, без стеков и внутренних идентификаторов.

func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusForError(err), gin.H{"success": false, "error": err.Error()})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, database.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, database.ErrInactiveBox):
		return http.StatusConflict
	case errors.Is(err, database.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, database.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, database.ErrNotPermitted):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// userIDFromQuery достаёт идентификатор пользователя, разрешённый внешним
// слоем аутентификации. Каждая операция обязана фильтровать данные по нему.
func userIDFromQuery(c *gin.Context) (int, bool) {
	userID, err := strconv.Atoi(c.Query("user_id"))
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Некорректный идентификатор пользователя"})
		return 0, false
	}
	return userID, true
}

func idParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Некорректный идентификатор"})
		return 0, false
	}
	return id, true
}

func idFromQuery(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Query(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Некорректный идентификатор"})
		return 0, false
	}
	return id, true
}

// amountToMinorUnits переводит сумму запроса в копейки, помечая ошибку как
// некорректный ввод.
func amountToMinorUnits(amount decimal.Decimal) (int64, error) {
	cents, err := utils.ToMinorUnits(amount)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", database.ErrInvalidInput, err)
	}
	return cents, nil
}
