package db

import "context"

type DBType string

const (
	Postgres DBType = "postgres"
	Mongo    DBType = "mongo"
	Memory   DBType = "memory"
)

type DB interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
}
