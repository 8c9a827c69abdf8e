package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"larsbees/entities"
	"larsbees/pkg/access"
	"larsbees/pkg/hive/repository"
)

type hiveRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.HiveRepository { return &hiveRepo{db} }

func (r *hiveRepo) Create(ctx context.Context, h *entities.IndividualHive) error {
	return r.db.WithContext(ctx).Omit("Site").Create(h).Error
}

func (r *hiveRepo) Update(ctx context.Context, h *entities.IndividualHive) error {
	return r.db.WithContext(ctx).Omit("Site").Save(h).Error
}

func (r *hiveRepo) Deactivate(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&entities.IndividualHive{}).Where("hive_id = ?", id).
		Update("is_active", false).Error
}

func (r *hiveRepo) ListBySite(ctx context.Context, siteID uint) ([]entities.IndividualHive, error) {
	var out []entities.IndividualHive
	err := r.db.WithContext(ctx).Where("site_id = ? AND is_active = ?", siteID, true).
		Order("hive_number asc").Find(&out).Error
	return out, err
}

func (r *hiveRepo) ListOwned(ctx context.Context, uid uint) ([]entities.IndividualHive, error) {
	var out []entities.IndividualHive
	err := r.db.WithContext(ctx).Scopes(access.OwnedHives(uid)).
		Where("individual_hives.is_active = ?", true).Preload("Site").
		Order("individual_hives.site_id asc, individual_hives.hive_number asc").Find(&out).Error
	return out, err
}
