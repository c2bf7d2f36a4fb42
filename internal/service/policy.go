package service

import (
	"slices"

	"bookstore-backend/internal/apperr"
	"bookstore-backend/internal/auth"
	"bookstore-backend/internal/models"
)

// RequireRole fails unless p is authenticated with one of roles.
func RequireRole(p *auth.Principal, roles ...models.Role) error {
	if p == nil {
		return apperr.Unauthenticated("Not authenticated")
	}
	if !slices.Contains(roles, p.Role) {
		return apperr.Forbidden("Forbidden")
	}
	return nil
}

// CanCreateItem allows sellers and admins.
func CanCreateItem(p *auth.Principal) error {
	return RequireRole(p, models.RoleSeller, models.RoleAdmin)
}

// CanMutateItem governs both update and delete: admins may change any item,
// sellers only the items they own.
func CanMutateItem(p *auth.Principal, it *models.Item) error {
	if err := RequireRole(p, models.RoleSeller, models.RoleAdmin); err != nil {
		return err
	}
	if p.Role == models.RoleAdmin {
		return nil
	}
	if !it.OwnedBy(p.ID) {
		return apperr.Forbidden("Forbidden: you can only edit your own books")
	}
	return nil
}

// CanDeleteOrder allows the order's buyer and admins.
func CanDeleteOrder(p *auth.Principal, o *models.Order) error {
	if p == nil {
		return apperr.Unauthenticated("Not authenticated")
	}
	if p.Role == models.RoleAdmin {
		return nil
	}
	if p.Role == models.RoleBuyer && o.UserID != nil && *o.UserID == p.ID {
		return nil
	}
	return apperr.Forbidden("Forbidden: you can only delete your own orders")
}
