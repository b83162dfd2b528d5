package service

import "github.com/Eursukkul/staybook/internal/models"

func CanCreateProperty(role models.Role) bool {
	return role == models.RoleHost || role == models.RoleAdmin
}

func CanCreateReservation(role models.Role) bool {
	return role == models.RoleGuest || role == models.RoleAdmin
}

func CanManageAsOwnerOrAdmin(actor models.Actor, ownerID uint) bool {
	return actor.Role == models.RoleAdmin || actor.UserID == ownerID
}

func IsAdmin(actor models.Actor) bool {
	return actor.Role == models.RoleAdmin
}
