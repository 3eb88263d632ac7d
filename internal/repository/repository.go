// Package repository holds the gorm implementations of the storage ports.
package repository

import (
	"github.com/justsurfingit/jobx/internal/apperr"
	"github.com/justsurfingit/jobx/internal/database"
	"gorm.io/gorm"
)

// translate maps driver errors onto the application taxonomy.
func translate(err error, notFound, conflict, failed string) error {
	switch {
	case err == nil:
		return nil
	case database.IsNotFound(err):
		return apperr.Wrap(apperr.KindNotFound, notFound, err)
	case database.IsUniqueViolation(err):
		return apperr.Wrap(apperr.KindConflict, conflict, err)
	default:
		return apperr.Internal(failed, err)
	}
}

// deletePostings removes postings and everything hanging off them inside tx.
func deletePostings(tx *gorm.DB, postingIDs []uint) error {
	if len(postingIDs) == 0 {
		return nil
	}
	if err := tx.Exec(`DELETE FROM messages WHERE posting_id IN ?`, postingIDs).Error; err != nil {
		return err
	}
	if err := tx.Exec(`DELETE FROM applications WHERE posting_id IN ?`, postingIDs).Error; err != nil {
		return err
	}
	return tx.Exec(`DELETE FROM postings WHERE id IN ?`, postingIDs).Error
}

// deleteCompany removes the company and its postings inside tx.
func deleteCompany(tx *gorm.DB, companyID uint) error {
	var postingIDs []uint
	if err := tx.Table("postings").Where("company_id = ?", companyID).Pluck("id", &postingIDs).Error; err != nil {
		return err
	}
	if err := deletePostings(tx, postingIDs); err != nil {
		return err
	}
	return tx.Exec(`DELETE FROM companies WHERE id = ?`, companyID).Error
}
