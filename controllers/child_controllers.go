package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dapoerattauhid/bisa-web-aja/models"
	"github.com/dapoerattauhid/bisa-web-aja/utils"
)

type ChildController struct {
	DB *gorm.DB
}

func NewChildController(db *gorm.DB) *ChildController {
	return &ChildController{DB: db}
}

// GetMyChildren -> daftar anak milik user yang login
func (cc *ChildController) GetMyChildren(c *gin.Context) {
	userID := c.GetUint("user_id")

	var children []models.Child
	if err := cc.DB.Where("user_id = ?", userID).Order("name").Find(&children).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Children", children)
}

// CreateChild -> tambah anak
func (cc *ChildController) CreateChild(c *gin.Context) {
	var req struct {
		Name      string `json:"name" binding:"required"`
		ClassName string `json:"class_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	child := models.Child{
		UserID:    c.GetUint("user_id"),
		Name:      req.Name,
		ClassName: req.ClassName,
	}

	if err := cc.DB.Create(&child).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Child created", child)
}

// UpdateChild -> ubah data anak (hanya milik sendiri)
func (cc *ChildController) UpdateChild(c *gin.Context) {
	childID, _ := strconv.Atoi(c.Param("child_id"))
	userID := c.GetUint("user_id")

	var child models.Child
	if err := cc.DB.Where("id = ? AND user_id = ?", childID, userID).First(&child).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("child not found"))
		return
	}

	var req struct {
		Name      *string `json:"name"`
		ClassName *string `json:"class_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		child.Name = *req.Name
	}
	if req.ClassName != nil {
		child.ClassName = *req.ClassName
	}

	if err := cc.DB.Save(&child).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Child updated", child)
}

// DeleteChild -> hapus anak (hanya milik sendiri)
func (cc *ChildController) DeleteChild(c *gin.Context) {
	childID, _ := strconv.Atoi(c.Param("child_id"))
	userID := c.GetUint("user_id")

	res := cc.DB.Where("id = ? AND user_id = ?", childID, userID).Delete(&models.Child{})
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("child not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Child deleted", gin.H{"child_id": childID})
}
