package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel_backoffice/internal/domain"
)

// kindTables names the catalog, link and owner tables of one amenity kind.
type kindTables struct {
	amenity  string
	link     string
	ownerCol string
	owner    any
}

var linkTables = map[domain.AmenityKind]kindTables{
	domain.HotelAmenity: {amenity: "hotel_amenities", link: "hotel_amenities_links", ownerCol: "hotel_id", owner: &hotelRecord{}},
	domain.RoomAmenity:  {amenity: "room_amenities", link: "room_amenities_links", ownerCol: "room_id", owner: &roomRecord{}},
}

func tablesFor(kind domain.AmenityKind) (kindTables, error) {
	t, ok := linkTables[kind]
	if !ok {
		return kindTables{}, fmt.Errorf("%w: unknown amenity kind %q", domain.ErrValidation, kind)
	}
	return t, nil
}

// amenityRow reads and writes either catalog table through Table().
type amenityRow struct {
	ID          int64
	AmenityName string
	Description string
	Icon        *string
}

func (a amenityRow) toDomain() domain.Amenity {
	out := domain.Amenity{ID: a.ID, Name: a.AmenityName, Description: a.Description, Icon: a.Icon}
	out.ResolveIcon()
	return out
}

func (r *Repo) ListAmenities(ctx context.Context, kind domain.AmenityKind) ([]domain.Amenity, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	var rows []amenityRow
	if err := r.db.WithContext(ctx).Table(t.amenity).Order("id").Find(&rows).Error; err != nil {
		return nil, translate(err, "list amenities")
	}
	out := make([]domain.Amenity, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

type roomRefRow struct {
	ID        int64
	RoomType  string
	Price     float64
	HotelID   *int64
	HotelName *string
	HotelCity *string
}

func (r *Repo) GetAmenity(ctx context.Context, kind domain.AmenityKind, id int64) (domain.AmenityDetail, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return domain.AmenityDetail{}, err
	}
	db := r.db.WithContext(ctx)
	var row amenityRow
	if err := db.Table(t.amenity).Where("id = ?", id).Take(&row).Error; err != nil {
		return domain.AmenityDetail{}, translate(err, fmt.Sprintf("%s amenity %d", kind, id))
	}
	d := domain.AmenityDetail{Amenity: row.toDomain()}

	switch kind {
	case domain.HotelAmenity:
		err = db.Table("hotels").
			Select("hotels.id, hotels.name, hotels.city").
			Joins("JOIN hotel_amenities_links l ON l.hotel_id = hotels.id").
			Where("l.amenity_id = ?", id).
			Order("hotels.id").
			Scan(&d.Hotels).Error
	case domain.RoomAmenity:
		var refs []roomRefRow
		err = db.Table("rooms").
			Select("rooms.id, rooms.room_type, rooms.price, rooms.hotel_id, h.name AS hotel_name, h.city AS hotel_city").
			Joins("JOIN room_amenities_links l ON l.room_id = rooms.id").
			Joins("LEFT JOIN hotels h ON h.id = rooms.hotel_id").
			Where("l.amenity_id = ?", id).
			Order("rooms.id").
			Scan(&refs).Error
		for _, ref := range refs {
			rr := domain.RoomRef{ID: ref.ID, RoomType: ref.RoomType, Price: ref.Price}
			if ref.HotelID != nil && ref.HotelName != nil {
				rr.Hotel = &domain.HotelRef{ID: *ref.HotelID, Name: *ref.HotelName, City: deref(ref.HotelCity)}
			}
			d.Rooms = append(d.Rooms, rr)
		}
	}
	if err != nil {
		return domain.AmenityDetail{}, translate(err, fmt.Sprintf("%s amenity %d links", kind, id))
	}
	return d, nil
}

func (r *Repo) CreateAmenity(ctx context.Context, kind domain.AmenityKind, a *domain.Amenity) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}
	row := amenityRow{AmenityName: a.Name, Description: a.Description, Icon: a.Icon}
	if err := r.db.WithContext(ctx).Table(t.amenity).Create(&row).Error; err != nil {
		return translate(err, "amenity")
	}
	a.ID = row.ID
	a.ResolveIcon()
	return nil
}

func (r *Repo) UpdateAmenity(ctx context.Context, kind domain.AmenityKind, a *domain.Amenity) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExistIn(tx, t.amenity, a.ID, string(kind)+" amenity"); err != nil {
			return err
		}
		err := tx.Table(t.amenity).Where("id = ?", a.ID).Updates(map[string]any{
			"amenity_name": a.Name,
			"description":  a.Description,
			"icon":         a.Icon,
		}).Error
		if err != nil {
			return translate(err, fmt.Sprintf("%s amenity %d", kind, a.ID))
		}
		a.ResolveIcon()
		return nil
	})
}

func (r *Repo) DeleteAmenity(ctx context.Context, kind domain.AmenityKind, id int64) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExistIn(tx, t.amenity, id, string(kind)+" amenity"); err != nil {
			return err
		}
		if err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE amenity_id = ?", t.link), id).Error; err != nil {
			return translate(err, "amenity links")
		}
		return translate(tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE id = ?", t.amenity), id).Error, "amenity")
	})
}

func (r *Repo) Link(ctx context.Context, kind domain.AmenityKind, ownerID, amenityID int64) (domain.Link, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return domain.Link{}, err
	}
	link := domain.Link{Kind: kind, OwnerID: ownerID, AmenityID: amenityID}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExistIn(tx, t.amenity, amenityID, string(kind)+" amenity"); err != nil {
			return err
		}
		if err := mustExist(tx, t.owner, ownerID, string(kind)); err != nil {
			return err
		}
		var n int64
		err := tx.Table(t.link).
			Where(t.ownerCol+" = ? AND amenity_id = ?", ownerID, amenityID).
			Count(&n).Error
		if err != nil {
			return translate(err, "amenity link")
		}
		if n > 0 {
			return fmt.Errorf("%w: link already exists", domain.ErrConflict)
		}
		link.ID, err = insertLink(tx, kind, ownerID, amenityID)
		return err
	})
	if err != nil {
		return domain.Link{}, err
	}
	return link, nil
}

// Unlink deletes the pair if present; a missing pair, owner or amenity is a no-op.
func (r *Repo) Unlink(ctx context.Context, kind domain.AmenityKind, ownerID, amenityID int64) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}
	q := fmt.Sprintf("DELETE FROM %s WHERE %s = ? AND amenity_id = ?", t.link, t.ownerCol)
	return translate(r.db.WithContext(ctx).Exec(q, ownerID, amenityID).Error, "amenity link")
}

func (r *Repo) SyncLinks(ctx context.Context, kind domain.AmenityKind, ownerID int64, amenityIDs []int64) (domain.LinkDiff, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return domain.LinkDiff{}, err
	}
	var diff domain.LinkDiff
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, t.owner, ownerID, string(kind)); err != nil {
			return err
		}
		diff, err = syncLinks(tx, kind, ownerID, amenityIDs)
		return err
	})
	if err != nil {
		return domain.LinkDiff{}, err
	}
	return diff, nil
}

// syncLinks applies Diff(current, amenityIDs) to the owner's links inside tx.
func syncLinks(tx *gorm.DB, kind domain.AmenityKind, ownerID int64, amenityIDs []int64) (domain.LinkDiff, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return domain.LinkDiff{}, err
	}
	wanted := domain.Diff(nil, amenityIDs).Link
	if len(wanted) > 0 {
		var found int64
		if err := tx.Table(t.amenity).Where("id IN ?", wanted).Count(&found).Error; err != nil {
			return domain.LinkDiff{}, translate(err, "amenities")
		}
		if found != int64(len(wanted)) {
			return domain.LinkDiff{}, fmt.Errorf("%w: unknown %s amenity in %v", domain.ErrValidation, kind, wanted)
		}
	}

	var current []int64
	if err := tx.Raw(fmt.Sprintf(linkedAmenityIDsSQL, t.link, t.ownerCol), ownerID).Scan(&current).Error; err != nil {
		return domain.LinkDiff{}, translate(err, "amenity links")
	}
	diff := domain.Diff(current, wanted)

	if len(diff.Unlink) > 0 {
		q := fmt.Sprintf("DELETE FROM %s WHERE %s = ? AND amenity_id IN ?", t.link, t.ownerCol)
		if err := tx.Exec(q, ownerID, diff.Unlink).Error; err != nil {
			return domain.LinkDiff{}, translate(err, "amenity links")
		}
	}
	for _, aid := range diff.Link {
		if _, err := insertLink(tx, kind, ownerID, aid); err != nil {
			return domain.LinkDiff{}, err
		}
	}
	return diff, nil
}

func insertLink(tx *gorm.DB, kind domain.AmenityKind, ownerID, amenityID int64) (int64, error) {
	switch kind {
	case domain.RoomAmenity:
		rec := roomAmenityLinkRecord{RoomID: ownerID, AmenityID: amenityID}
		if err := tx.Omit(clause.Associations).Create(&rec).Error; err != nil {
			return 0, translate(err, "room amenity link")
		}
		return rec.ID, nil
	default:
		rec := hotelAmenityLinkRecord{HotelID: ownerID, AmenityID: amenityID}
		if err := tx.Omit(clause.Associations).Create(&rec).Error; err != nil {
			return 0, translate(err, "hotel amenity link")
		}
		return rec.ID, nil
	}
}

func mustExistIn(tx *gorm.DB, table string, id int64, what string) error {
	var n int64
	if err := tx.Table(table).Where("id = ?", id).Count(&n).Error; err != nil {
		return translate(err, what)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", what, id, domain.ErrNotFound)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
