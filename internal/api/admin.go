package api

import (
	"net/http" // HTTP status codes
	"strconv"  // Role id parsing
	"strings"  // Blank form values

	"paydesk/internal/middleware" // Error responses
	"paydesk/internal/service"    // Admin operations

	"github.com/gin-gonic/gin" // Gin web framework
)

// CreateUserRequest is the create-user form
type CreateUserRequest struct {
	Email     string  `form:"email" binding:"required"`      // Login email
	RoleID    int64   `form:"role_id" binding:"required"`    // 1 user, 2 admin
	Password  string  `form:"password" binding:"required"`   // Plaintext, hashed before storage
	FirstName string  `form:"first_name" binding:"required"` // First name
	LastName  *string `form:"last_name"`                     // Optional last name
}

// DeleteUserRequest names the user to delete. net/http does not parse form
// bodies on DELETE, so the email comes as a query parameter or JSON body.
type DeleteUserRequest struct {
	Email string `form:"email" json:"email" binding:"required"` // User to delete
}

// UpdateUserRequest is the update-user form. Omitted or blank fields keep
// their current value.
type UpdateUserRequest struct {
	UserEmail    string  `form:"user_email" binding:"required"` // User to update
	NewEmail     *string `form:"new_email"`
	NewRoleID    *string `form:"new_role_id"` // Blank keeps the current role
	NewFirstName *string `form:"new_first_name"`
	NewLastName  *string `form:"new_last_name"`
	NewPassword  *string `form:"new_password"`
}

// CreateUserHandler registers a new user
func CreateUserHandler(admins *service.Admins) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateUserRequest // Bind form to struct
		if err := c.ShouldBind(&req); err != nil {
			invalid(c, err)
			return
		}
		res, err := admins.CreateUser(c.Request.Context(), service.CreateUserInput{
			Email:     req.Email,
			RoleID:    req.RoleID,
			Password:  req.Password,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		})
		if err != nil {
			middleware.Fail(c, err) // Duplicate email or unknown role
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// DeleteUserHandler removes a user by email
func DeleteUserHandler(admins *service.Admins) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DeleteUserRequest // Bind form to struct
		if err := c.ShouldBind(&req); err != nil {
			invalid(c, err)
			return
		}
		detail, err := admins.DeleteUser(c.Request.Context(), req.Email)
		if err != nil {
			middleware.Fail(c, err) // Unknown email or user still owns accounts
			return
		}
		c.JSON(http.StatusOK, gin.H{"detail": detail})
	}
}

// UpdateUserHandler applies a sparse patch to a user found by email
func UpdateUserHandler(admins *service.Admins) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateUserRequest // Bind form to struct
		if err := c.ShouldBind(&req); err != nil {
			invalid(c, err)
			return
		}
		roleID, err := optionalID(req.NewRoleID)
		if err != nil {
			invalid(c, err)
			return
		}
		res, err := admins.UpdateUser(c.Request.Context(), service.UpdateUserInput{
			Email:        req.UserEmail,
			NewEmail:     req.NewEmail,
			NewRoleID:    roleID,
			NewFirstName: req.NewFirstName,
			NewLastName:  req.NewLastName,
			NewPassword:  req.NewPassword,
		})
		if err != nil {
			middleware.Fail(c, err) // Unknown email or email taken
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// ListUsersHandler returns one page of active users with their accounts
func ListUsersHandler(admins *service.Admins) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, ok := pageParam(c) // ?page=N, default 1
		if !ok {
			return
		}
		res, err := admins.ListUsersWithAccounts(c.Request.Context(), page)
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// optionalID parses an optional numeric form field. Missing or blank is nil.
func optionalID(raw *string) (*int64, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(strings.TrimSpace(*raw), 10, 64)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
