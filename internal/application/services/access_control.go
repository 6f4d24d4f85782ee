package services

import (
	"fmt"

	"github.com/hal-directory/backend/internal/domain/entities"
	apperrors "github.com/hal-directory/backend/pkg/errors"
)

// CanMutateCompany reports whether principal may update or delete company:
// admins may change any company, other users only the ones they own.
func CanMutateCompany(principal entities.Principal, company *entities.Company) bool {
	return principal.IsAdmin() || company.OwnedBy(principal.UserID)
}

// authorizeCompanyMutation is the single check shared by update and delete
func authorizeCompanyMutation(principal entities.Principal, company *entities.Company, action string) error {
	if !CanMutateCompany(principal, company) {
		return apperrors.NewForbiddenError(fmt.Sprintf("Not authorized to %s this company", action))
	}
	return nil
}
