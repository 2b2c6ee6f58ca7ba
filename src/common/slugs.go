package common

import (
	"academy/src/db"
	"academy/src/models"
	"fmt"
	"log"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// UpdateMissingSlugs backfills slugs for catalog rows imported without one.
func UpdateMissingSlugs() {
	gdb := db.GetDb()
	backfillMembershipSlugs(gdb)
	backfillCatalogSlugs(gdb)
}

func backfillMembershipSlugs(gdb *gorm.DB) {
	rows, err := gdb.
		Model(&models.Membership{}).
		Where("slug IS NULL OR slug = ''").
		Rows()
	if err != nil {
		log.Printf("Error querying Memberships: %s\n", err.Error())
		return
	}
	defer rows.Close()
	if err := gdb.Transaction(func(tx *gorm.DB) error {
		for rows.Next() {
			var membership models.Membership
			if err := tx.ScanRows(rows, &membership); err != nil {
				return err
			}
			newSlug := slug.Make(membership.Name)
			if err := tx.
				Model(&models.Membership{}).
				Where("id = ?", membership.ID).
				Update("slug", fmt.Sprintf("%s-%.8s", newSlug, membership.ID.String())).
				Error; err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		log.Printf("Error on update operation: %s\n", err.Error())
	}
}

func backfillCatalogSlugs(gdb *gorm.DB) {
	rows, err := gdb.
		Model(&models.Product{}).
		Where("slug IS NULL OR slug = ''").
		Rows()
	if err != nil {
		log.Printf("Error querying Products: %s\n", err.Error())
		return
	}
	defer rows.Close()
	if err := gdb.Transaction(func(tx *gorm.DB) error {
		for rows.Next() {
			var product models.Product
			if err := tx.ScanRows(rows, &product); err != nil {
				return err
			}
			newSlug := slug.Make(product.Name)
			if err := tx.
				Model(&models.Product{}).
				Where("id = ?", product.ID).
				Update("slug", fmt.Sprintf("%s-%.8s", newSlug, product.ID.String())).
				Error; err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		log.Printf("Error on update operation: %s\n", err.Error())
	}
}
