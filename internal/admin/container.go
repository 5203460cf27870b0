package admin

import "gorm.io/gorm"

type AdminContainer struct {
	Service AdminService
	Handler *Handler
}

func NewAdminContainer(db *gorm.DB, defaultPasscode string) *AdminContainer {
	repo := NewRepository(db)
	service := NewService(repo, defaultPasscode)
	handler := NewHandler(service)

	return &AdminContainer{
		Service: service,
		Handler: handler,
	}
}
