package mysql

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"hotel_backoffice/internal/domain"
)

func newMockRepo(t *testing.T) (*Repo, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Discard,
	})
	require.NoError(t, err)
	return New(db), mock
}

func countRows(n int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count(*)"}).AddRow(n)
}

func TestStats(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT\s+\(SELECT COUNT\(\*\) FROM hotels\)`).
		WillReturnRows(sqlmock.NewRows([]string{"hotels", "rooms"}).AddRow(3, 7))

	s, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Stats{Hotels: 3, Rooms: 7}, s)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateHotel(t *testing.T) {
	repo, mock := newMockRepo(t)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO `hotels`").
			WillReturnResult(sqlmock.NewResult(42, 1))

		h := &domain.Hotel{Name: "A", Address: "X", City: "Y", Rating: 4.5}
		require.NoError(t, repo.CreateHotel(context.Background(), h))
		assert.EqualValues(t, 42, h.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO `hotels`").
			WillReturnError(&mysqldrv.MySQLError{Number: errDuplicateEntry, Message: "Duplicate entry"})

		err := repo.CreateHotel(context.Background(), &domain.Hotel{Name: "A", Address: "X", City: "Y", Rating: 4})
		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteHotel_WithRoomsRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `hotels`").WithArgs(5).WillReturnRows(countRows(1))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `rooms`").WithArgs(5).WillReturnRows(countRows(2))
	mock.ExpectRollback()

	err := repo.DeleteHotel(context.Background(), 5)
	assert.ErrorIs(t, err, domain.ErrHasDependents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteHotel_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `hotels`").WithArgs(9).WillReturnRows(countRows(0))
	mock.ExpectRollback()

	err := repo.DeleteHotel(context.Background(), 9)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLink_ExistingPairConflicts(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `hotel_amenities` WHERE").WithArgs(3).WillReturnRows(countRows(1))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `hotels`").WithArgs(1).WillReturnRows(countRows(1))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `hotel_amenities_links`").WithArgs(1, 3).WillReturnRows(countRows(1))
	mock.ExpectRollback()

	_, err := repo.Link(context.Background(), domain.HotelAmenity, 1, 3)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLink_CreatesRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `room_amenities` WHERE").WithArgs(3).WillReturnRows(countRows(1))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `rooms`").WithArgs(8).WillReturnRows(countRows(1))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `room_amenities_links`").WithArgs(8, 3).WillReturnRows(countRows(0))
	mock.ExpectExec("INSERT INTO `room_amenities_links`").WillReturnResult(sqlmock.NewResult(77, 1))
	mock.ExpectCommit()

	link, err := repo.Link(context.Background(), domain.RoomAmenity, 8, 3)
	require.NoError(t, err)
	assert.Equal(t, domain.Link{ID: 77, Kind: domain.RoomAmenity, OwnerID: 8, AmenityID: 3}, link)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTranslate(t *testing.T) {
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound, "hotel 1"), domain.ErrNotFound)
	assert.ErrorIs(t, translate(&mysqldrv.MySQLError{Number: errDuplicateEntry}, "link"), domain.ErrConflict)
	assert.ErrorIs(t, translate(&mysqldrv.MySQLError{Number: errNoReferencedRow}, "room"), domain.ErrValidation)
	assert.NoError(t, translate(nil, "x"))
}

func TestNormalizeDSN(t *testing.T) {
	dsn, err := NormalizeDSN("root:pw@tcp(127.0.0.1:3306)/hotels")
	require.NoError(t, err)
	cfg, err := mysqldrv.ParseDSN(dsn)
	require.NoError(t, err)
	assert.True(t, cfg.ParseTime)
	assert.Equal(t, "hotels", cfg.DBName)

	_, err = NormalizeDSN("root:pw@tcp(127.0.0.1:3306)/")
	assert.Error(t, err)
}

func TestUnlink_MissingPairIsNoop(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("DELETE FROM hotel_amenities_links WHERE hotel_id = \\? AND amenity_id = \\?").
		WithArgs(1, 999).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Unlink(context.Background(), domain.HotelAmenity, 1, 999))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRoomType_RenamesRooms(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `room_types`").WithArgs(3).WillReturnRows(countRows(1))
	mock.ExpectExec("UPDATE `room_types` SET `type_name`=\\?,`description`=\\?").
		WithArgs("Grand Suite", "", 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `rooms` SET `room_type`=\\? WHERE room_type_id = \\?").
		WithArgs("Grand Suite", 3).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectCommit()

	require.NoError(t, repo.UpdateRoomType(context.Background(), &domain.RoomType{ID: 3, TypeName: "Grand Suite"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}
