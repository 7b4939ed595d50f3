package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"meetingbook/infras/otel"
	"meetingbook/infras/postgres"
	"meetingbook/internal/domains/room/model"
	gRepo "meetingbook/shared/repository"
)

type Room interface {
	gRepo.Table[model.Room]
}

func New(db *postgres.Connection, ot otel.Otel) Room {
	repo := gRepo.NewRepository[model.Room](model.EntityName, model.TableName, model.FieldID, db, ot)

	return &repo
}
