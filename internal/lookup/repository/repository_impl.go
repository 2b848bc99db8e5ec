package repository

import (
	"context"

	"github.com/smallbiznis/orderlens/internal/lookup/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Replace(ctx context.Context, db *gorm.DB, row *domain.OrderCountry) (int64, error) {
	tx := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}},
			UpdateAll: true,
		}).
		Create(row)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return tx.RowsAffected, nil
}

func (r *repo) CreateTable(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(&domain.OrderCountry{})
}

func (r *repo) DropTable(ctx context.Context, db *gorm.DB) error {
	migrator := db.WithContext(ctx).Migrator()
	if !migrator.HasTable(&domain.OrderCountry{}) {
		return nil
	}
	return migrator.DropTable(&domain.OrderCountry{})
}
