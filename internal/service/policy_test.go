package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookstore-backend/internal/apperr"
	"bookstore-backend/internal/auth"
	"bookstore-backend/internal/models"
)

func TestCanMutateItem(t *testing.T) {
	owner := primitive.NewObjectID()
	it := &models.Item{Owner: &owner}
	orphan := &models.Item{}

	cases := []struct {
		name string
		p    *auth.Principal
		item *models.Item
		want apperr.Kind
		ok   bool
	}{
		{"anonymous", nil, it, apperr.KindAuthentication, false},
		{"buyer", &auth.Principal{ID: owner, Role: models.RoleBuyer}, it, apperr.KindAuthorization, false},
		{"owning seller", &auth.Principal{ID: owner, Role: models.RoleSeller}, it, 0, true},
		{"other seller", &auth.Principal{ID: primitive.NewObjectID(), Role: models.RoleSeller}, it, apperr.KindAuthorization, false},
		{"seller on unowned item", &auth.Principal{ID: owner, Role: models.RoleSeller}, orphan, apperr.KindAuthorization, false},
		{"admin", &auth.Principal{ID: primitive.NewObjectID(), Role: models.RoleAdmin}, it, 0, true},
		{"admin on unowned item", &auth.Principal{ID: primitive.NewObjectID(), Role: models.RoleAdmin}, orphan, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CanMutateItem(tc.p, tc.item)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperr.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestRequireRole(t *testing.T) {
	assert.True(t, apperr.Is(RequireRole(nil, models.RoleAdmin), apperr.KindAuthentication))
	seller := &auth.Principal{ID: primitive.NewObjectID(), Role: models.RoleSeller}
	assert.True(t, apperr.Is(RequireRole(seller, models.RoleAdmin), apperr.KindAuthorization))
	assert.NoError(t, RequireRole(seller, models.RoleSeller, models.RoleAdmin))
}
