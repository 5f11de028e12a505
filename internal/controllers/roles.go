package controllers

import "github.com/zaqqye/eduapp_backend/internal/models"

var allowedRoles = map[string]struct{}{
	models.RoleTeacher: {},
	models.RoleStudent: {},
}

func IsValidRole(role string) bool {
	_, ok := allowedRoles[role]
	return ok
}
