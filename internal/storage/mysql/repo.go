package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	mysqldrv "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel_backoffice/internal/domain"
)

const (
	errDuplicateEntry  = 1062
	errNoReferencedRow = 1452
)

type Repo struct {
	db *gorm.DB
}

var _ domain.Store = (*Repo)(nil)

func New(db *gorm.DB) *Repo { return &Repo{db: db} }

// translate maps driver and gorm errors onto domain sentinels.
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	var me *mysqldrv.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case errDuplicateEntry:
			return fmt.Errorf("%w: %s already exists", domain.ErrConflict, what)
		case errNoReferencedRow:
			return fmt.Errorf("%w: %s references a missing row", domain.ErrValidation, what)
		}
	}
	return fmt.Errorf("%s: %w", what, err)
}

func (r *Repo) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	var version string
	if err := r.db.WithContext(ctx).Raw(versionSQL).Row().Scan(&version); err != nil {
		return 0, fmt.Errorf("db ping: %w", err)
	}
	return time.Since(start), nil
}

func (r *Repo) Stats(ctx context.Context) (domain.Stats, error) {
	var s domain.Stats
	if err := r.db.WithContext(ctx).Raw(statsSQL).Row().Scan(&s.Hotels, &s.Rooms); err != nil {
		return domain.Stats{}, fmt.Errorf("db stats: %w", err)
	}
	return s, nil
}

// ---- hotels ----

func byID(db *gorm.DB) *gorm.DB { return db.Order("id") }

func hotelPreloads(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Rooms", byID).
		Preload("Rooms.Type").
		Preload("Rooms.Amenities", byID).
		Preload("Rooms.Amenities.Amenity").
		Preload("Amenities", byID).
		Preload("Amenities.Amenity").
		Preload("Reviews", byID)
}

func (r *Repo) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	var recs []hotelRecord
	if err := hotelPreloads(r.db.WithContext(ctx)).Order("id").Find(&recs).Error; err != nil {
		return nil, translate(err, "list hotels")
	}
	out := make([]domain.Hotel, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toDomain())
	}
	return out, nil
}

func (r *Repo) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	var rec hotelRecord
	if err := hotelPreloads(r.db.WithContext(ctx)).Take(&rec, id).Error; err != nil {
		return domain.Hotel{}, translate(err, fmt.Sprintf("hotel %d", id))
	}
	return rec.toDomain(), nil
}

func (r *Repo) CreateHotel(ctx context.Context, h *domain.Hotel) error {
	rec := hotelFromDomain(*h)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&rec).Error; err != nil {
		return translate(err, "hotel")
	}
	h.ID = rec.ID
	return nil
}

func (r *Repo) UpdateHotel(ctx context.Context, h *domain.Hotel, amenityIDs []int64) (domain.LinkDiff, error) {
	var diff domain.LinkDiff
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &hotelRecord{}, h.ID, "hotel"); err != nil {
			return err
		}
		rec := hotelFromDomain(*h)
		err := tx.Model(&hotelRecord{ID: h.ID}).
			Select("name", "address", "city", "rating", "image_url").
			Updates(&rec).Error
		if err != nil {
			return translate(err, fmt.Sprintf("hotel %d", h.ID))
		}
		if amenityIDs == nil {
			return nil
		}
		diff, err = syncLinks(tx, domain.HotelAmenity, h.ID, amenityIDs)
		return err
	})
	if err != nil {
		return domain.LinkDiff{}, err
	}
	return diff, nil
}

func (r *Repo) DeleteHotel(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &hotelRecord{}, id, "hotel"); err != nil {
			return err
		}
		var rooms int64
		if err := tx.Model(&roomRecord{}).Where("hotel_id = ?", id).Count(&rooms).Error; err != nil {
			return translate(err, "count rooms")
		}
		if rooms > 0 {
			return fmt.Errorf("%w: hotel %d still has %d rooms", domain.ErrHasDependents, id, rooms)
		}
		if err := tx.Where("hotel_id = ?", id).Delete(&hotelAmenityLinkRecord{}).Error; err != nil {
			return translate(err, "hotel amenity links")
		}
		if err := tx.Where("hotel_id = ?", id).Delete(&reviewRecord{}).Error; err != nil {
			return translate(err, "hotel reviews")
		}
		return translate(tx.Delete(&hotelRecord{}, id).Error, fmt.Sprintf("hotel %d", id))
	})
}

// ---- rooms ----

func roomPreloads(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Type").
		Preload("Hotel", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name", "city") }).
		Preload("Amenities", byID).
		Preload("Amenities.Amenity")
}

func roomScope(f domain.RoomFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.RoomType != "" {
			db = db.Where("room_type = ?", f.RoomType)
		}
		if f.HotelID != nil {
			db = db.Where("hotel_id = ?", *f.HotelID)
		}
		return db
	}
}

func (r *Repo) ListRooms(ctx context.Context, f domain.RoomFilter) ([]domain.Room, error) {
	var recs []roomRecord
	err := roomPreloads(r.db.WithContext(ctx)).Scopes(roomScope(f)).Order("id").Find(&recs).Error
	if err != nil {
		return nil, translate(err, "list rooms")
	}
	out := make([]domain.Room, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toDomain(true))
	}
	return out, nil
}

func (r *Repo) CountRooms(ctx context.Context, f domain.RoomFilter) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&roomRecord{}).Scopes(roomScope(f)).Count(&n).Error; err != nil {
		return 0, translate(err, "count rooms")
	}
	return n, nil
}

func (r *Repo) GetRoom(ctx context.Context, id int64) (domain.Room, error) {
	var rec roomRecord
	if err := roomPreloads(r.db.WithContext(ctx)).Take(&rec, id).Error; err != nil {
		return domain.Room{}, translate(err, fmt.Sprintf("room %d", id))
	}
	return rec.toDomain(true), nil
}

func (r *Repo) CreateRoom(ctx context.Context, room *domain.Room, amenityIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkRoomRefs(tx, *room); err != nil {
			return err
		}
		rec := roomFromDomain(*room)
		if err := tx.Omit(clause.Associations).Create(&rec).Error; err != nil {
			return translate(err, "room")
		}
		room.ID = rec.ID
		if len(amenityIDs) == 0 {
			return nil
		}
		_, err := syncLinks(tx, domain.RoomAmenity, rec.ID, amenityIDs)
		return err
	})
}

func (r *Repo) UpdateRoom(ctx context.Context, room *domain.Room) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &roomRecord{}, room.ID, "room"); err != nil {
			return err
		}
		if err := checkRoomRefs(tx, *room); err != nil {
			return err
		}
		rec := roomFromDomain(*room)
		err := tx.Model(&roomRecord{ID: room.ID}).
			Select("hotel_id", "room_type", "room_type_id", "price", "availability", "image_url").
			Updates(&rec).Error
		return translate(err, fmt.Sprintf("room %d", room.ID))
	})
}

func (r *Repo) DeleteRoom(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &roomRecord{}, id, "room"); err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", id).Delete(&roomAmenityLinkRecord{}).Error; err != nil {
			return translate(err, "room amenity links")
		}
		return translate(tx.Delete(&roomRecord{}, id).Error, fmt.Sprintf("room %d", id))
	})
}

func checkRoomRefs(tx *gorm.DB, room domain.Room) error {
	if room.HotelID != nil {
		if err := mustExist(tx, &hotelRecord{}, *room.HotelID, "hotel"); err != nil {
			return fmt.Errorf("%w: hotel %d does not exist", domain.ErrValidation, *room.HotelID)
		}
	}
	if room.RoomTypeID != nil {
		if err := mustExist(tx, &roomTypeRecord{}, *room.RoomTypeID, "room type"); err != nil {
			return fmt.Errorf("%w: room type %d does not exist", domain.ErrValidation, *room.RoomTypeID)
		}
	}
	return nil
}

// ---- room types ----

func (r *Repo) ListRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	var recs []roomTypeRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&recs).Error; err != nil {
		return nil, translate(err, "list room types")
	}
	out := make([]domain.RoomType, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toDomain())
	}
	return out, nil
}

func (r *Repo) GetRoomType(ctx context.Context, id int64) (domain.RoomType, error) {
	var rec roomTypeRecord
	if err := r.db.WithContext(ctx).Take(&rec, id).Error; err != nil {
		return domain.RoomType{}, translate(err, fmt.Sprintf("room type %d", id))
	}
	return rec.toDomain(), nil
}

func (r *Repo) CreateRoomType(ctx context.Context, rt *domain.RoomType) error {
	rec := roomTypeRecord{TypeName: rt.TypeName, Description: rt.Description}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return translate(err, "room type")
	}
	rt.ID = rec.ID
	return nil
}

// UpdateRoomType also renames roomType on every room referencing the type.
func (r *Repo) UpdateRoomType(ctx context.Context, rt *domain.RoomType) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &roomTypeRecord{}, rt.ID, "room type"); err != nil {
			return err
		}
		err := tx.Model(&roomTypeRecord{ID: rt.ID}).
			Select("type_name", "description").
			Updates(&roomTypeRecord{TypeName: rt.TypeName, Description: rt.Description}).Error
		if err != nil {
			return translate(err, fmt.Sprintf("room type %d", rt.ID))
		}
		// rooms are counted per type by name, so a rename follows into them
		err = tx.Model(&roomRecord{}).Where("room_type_id = ?", rt.ID).Update("room_type", rt.TypeName).Error
		return translate(err, "rooms")
	})
}

func (r *Repo) DeleteRoomType(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &roomTypeRecord{}, id, "room type"); err != nil {
			return err
		}
		var used int64
		if err := tx.Model(&roomRecord{}).Where("room_type_id = ?", id).Count(&used).Error; err != nil {
			return translate(err, "count rooms")
		}
		if used > 0 {
			return fmt.Errorf("%w: room type %d is used by %d rooms", domain.ErrHasDependents, id, used)
		}
		return translate(tx.Delete(&roomTypeRecord{}, id).Error, fmt.Sprintf("room type %d", id))
	})
}

// mustExist returns a wrapped ErrNotFound unless model has a row with id.
func mustExist(tx *gorm.DB, model any, id int64, what string) error {
	var n int64
	if err := tx.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return translate(err, what)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", what, id, domain.ErrNotFound)
	}
	return nil
}
