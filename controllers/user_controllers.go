package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dapoerattauhid/bisa-web-aja/models"
	"github.com/dapoerattauhid/bisa-web-aja/utils"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// Register user baru; user baru selalu menjadi parent,
// role lain diberikan admin lewat UpdateUserRole
func (uc *UserController) Register(c *gin.Context) {
	type request struct {
		FullName string `json:"full_name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		Phone    string `json:"phone"`
		Address  string `json:"address"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	user := models.User{
		FullName: req.FullName,
		Email:    req.Email,
		Password: string(hashed),
		Phone:    req.Phone,
		Address:  req.Address,
	}

	err = uc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&models.UserRole{UserID: user.ID, Role: models.RoleParent}).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New user registered: %s", user.Email)

	utils.RespondJSON(c, http.StatusCreated, "User registered", gin.H{
		"user_id": user.ID,
	})
}

// Login user -> return JWT dengan role dari tabel user_roles
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	role := models.RoleParent
	var userRole models.UserRole
	if err := uc.DB.Where("user_id = ?", user.ID).First(&userRole).Error; err == nil {
		role = userRole.Role
	}

	token, err := utils.GenerateToken(user.ID, role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Login successful for user: %s (role=%s)", user.Email, role)

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":     token,
		"user_role": role,
	})
}

// Logout -> blacklist token sampai kadaluarsa
func (uc *UserController) Logout(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if token != "" {
		utils.BlacklistToken(token)
	}
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

// GetProfile -> data user dari JWT
func (uc *UserController) GetProfile(c *gin.Context) {
	userID := c.GetUint("user_id")

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Profile data retrieved successfully", gin.H{
		"id":        user.ID,
		"full_name": user.FullName,
		"email":     user.Email,
		"phone":     user.Phone,
		"address":   user.Address,
		"role":      c.GetString("role"),
	})
}

// UpdateProfile -> user memperbarui data dirinya sendiri
func (uc *UserController) UpdateProfile(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req struct {
		FullName *string `json:"full_name"`
		Phone    *string `json:"phone"`
		Address  *string `json:"address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Address != nil {
		user.Address = *req.Address
	}

	if err := uc.DB.Save(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Profile updated", user)
}

// GetAllUsers -> daftar user + role untuk halaman manajemen role (admin)
func (uc *UserController) GetAllUsers(c *gin.Context) {
	var users []models.User
	if err := uc.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var roles []models.UserRole
	if err := uc.DB.Find(&roles).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	roleByUser := make(map[uint]string, len(roles))
	for _, r := range roles {
		roleByUser[r.UserID] = r.Role
	}

	type userWithRole struct {
		ID        uint   `json:"id"`
		FullName  string `json:"full_name"`
		Email     string `json:"email"`
		Role      string `json:"role"`
		CreatedAt string `json:"created_at"`
	}

	result := make([]userWithRole, 0, len(users))
	for _, u := range users {
		role := roleByUser[u.ID]
		if role == "" {
			role = models.RoleParent
		}
		result = append(result, userWithRole{
			ID:        u.ID,
			FullName:  u.FullName,
			Email:     u.Email,
			Role:      role,
			CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	utils.RespondJSON(c, http.StatusOK, "All users", result)
}

// UpdateUserRole -> admin mengganti role seorang user
func (uc *UserController) UpdateUserRole(c *gin.Context) {
	var req struct {
		UserID uint   `json:"user_id" binding:"required"`
		Role   string `json:"role" binding:"required,oneof=parent admin cashier"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.First(&user, req.UserID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}

	var userRole models.UserRole
	err := uc.DB.Where("user_id = ?", req.UserID).First(&userRole).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		userRole = models.UserRole{UserID: req.UserID, Role: req.Role}
		err = uc.DB.Create(&userRole).Error
	} else if err == nil {
		userRole.Role = req.Role
		err = uc.DB.Save(&userRole).Error
	}
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Role for user %d set to %s", req.UserID, req.Role)

	utils.RespondJSON(c, http.StatusOK, "Role updated", userRole)
}
