package postgres

import (
	"time"

	"github.com/bally3399/chord001-monograms/internal/domain"
)

// joinedDesignColumns selects the design side of a LEFT JOIN against alias d.
// Every column is nullable so a missing design scans cleanly.
const joinedDesignColumns = `d.id, d.title, d.description, d.image_url, d.price, d.category, d.is_featured, d.created_at`

// joinedDesign is the scan target for joinedDesignColumns.
type joinedDesign struct {
	id          *string
	title       *string
	description *string
	imageURL    *string
	price       *int64
	category    *string
	isFeatured  *bool
	createdAt   *time.Time
}

func (j *joinedDesign) dest() []any {
	return []any{&j.id, &j.title, &j.description, &j.imageURL, &j.price, &j.category, &j.isFeatured, &j.createdAt}
}

// design returns nil when the join found no design row.
func (j *joinedDesign) design() *domain.Design {
	if j.id == nil {
		return nil
	}
	d := &domain.Design{
		ID:          *j.id,
		Title:       deref(j.title),
		Description: deref(j.description),
		ImageURL:    deref(j.imageURL),
		Price:       j.price,
		Category:    deref(j.category),
	}
	if j.isFeatured != nil {
		d.IsFeatured = *j.isFeatured
	}
	if j.createdAt != nil {
		d.CreatedAt = *j.createdAt
	}
	return d
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
