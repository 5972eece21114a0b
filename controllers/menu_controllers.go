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

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// GetAllCategories -> daftar kategori menu
func (mc *MenuController) GetAllCategories(c *gin.Context) {
	var categories []models.Category
	if err := mc.DB.Order("name").Find(&categories).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Categories", categories)
}

// CreateCategory (admin)
func (mc *MenuController) CreateCategory(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	category := models.Category{Name: req.Name, Description: req.Description}
	if err := mc.DB.Create(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Category created", category)
}

// DeleteCategory (admin)
func (mc *MenuController) DeleteCategory(c *gin.Context) {
	catID, _ := strconv.Atoi(c.Param("cat_id"))
	if err := mc.DB.Delete(&models.Category{}, catID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category deleted", gin.H{"category_id": catID})
}

// GetAllMenuItems -> daftar menu; ?available=true untuk menu yang bisa dipesan,
// ?category_id= untuk filter kategori
func (mc *MenuController) GetAllMenuItems(c *gin.Context) {
	query := mc.DB.Preload("Category").Order("name")

	if c.Query("available") == "true" {
		query = query.Where("is_available = ?", true)
	}
	if catID := c.Query("category_id"); catID != "" {
		query = query.Where("category_id = ?", catID)
	}

	var items []models.MenuItem
	if err := query.Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu items", items)
}

// GetMenuItemByID -> detail satu menu
func (mc *MenuController) GetMenuItemByID(c *gin.Context) {
	itemID, _ := strconv.Atoi(c.Param("item_id"))

	var item models.MenuItem
	if err := mc.DB.Preload("Category").First(&item, itemID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu item detail", item)
}

// CreateMenuItem (admin)
func (mc *MenuController) CreateMenuItem(c *gin.Context) {
	var req struct {
		CategoryID  *uint   `json:"category_id"`
		Name        string  `json:"name" binding:"required"`
		Price       float64 `json:"price" binding:"required,gt=0"`
		Description string  `json:"description"`
		ImageURL    string  `json:"image_url"`
		IsAvailable *bool   `json:"is_available"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item := models.MenuItem{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		IsAvailable: true,
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}

	if err := mc.DB.Create(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Menu item created: %s (%s)", item.Name, utils.FormatCurrencyIDR(item.Price))

	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

// UpdateMenuItem (admin)
func (mc *MenuController) UpdateMenuItem(c *gin.Context) {
	itemID, _ := strconv.Atoi(c.Param("item_id"))

	var item models.MenuItem
	if err := mc.DB.First(&item, itemID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
		return
	}

	var req struct {
		CategoryID  *uint    `json:"category_id"`
		Name        *string  `json:"name"`
		Price       *float64 `json:"price"`
		Description *string  `json:"description"`
		ImageURL    *string  `json:"image_url"`
		IsAvailable *bool    `json:"is_available"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.CategoryID != nil {
		item.CategoryID = req.CategoryID
	}
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("price must be greater than 0"))
			return
		}
		item.Price = *req.Price
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.ImageURL != nil {
		item.ImageURL = *req.ImageURL
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}

	if err := mc.DB.Save(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

// DeleteMenuItem (admin)
func (mc *MenuController) DeleteMenuItem(c *gin.Context) {
	itemID, _ := strconv.Atoi(c.Param("item_id"))

	if err := mc.DB.Delete(&models.MenuItem{}, itemID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", gin.H{"menu_item_id": itemID})
}
