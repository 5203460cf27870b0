package subject

import "gorm.io/gorm"

type SubjectContainer struct {
	Repo    SubjectRepository
	Service SubjectService
	Handler *Handler
}

func NewSubjectContainer(db *gorm.DB, cache Cache) *SubjectContainer {
	repo := NewRepository(db)
	service := NewService(repo, cache)
	handler := NewHandler(service)

	return &SubjectContainer{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}
