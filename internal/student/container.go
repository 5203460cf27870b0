package student

import "gorm.io/gorm"

type StudentContainer struct {
	Repo    StudentRepository
	Service StudentService
	Handler *Handler
}

func NewStudentContainer(db *gorm.DB) *StudentContainer {
	repo := NewRepository(db)
	service := NewService(repo)
	handler := NewHandler(service)

	return &StudentContainer{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}
