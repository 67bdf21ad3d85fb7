package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/semaphore"

	"hotel_backoffice/internal/adapters/backoffice"
	"hotel_backoffice/internal/domain"
)

// seedFile is the bulk-load document; JSON and YAML are both accepted. Amenities are
// referenced by name.
type seedFile struct {
	RoomTypes      []seedRoomType `mapstructure:"roomTypes"`
	HotelAmenities []seedAmenity  `mapstructure:"hotelAmenities"`
	RoomAmenities  []seedAmenity  `mapstructure:"roomAmenities"`
	Hotels         []seedHotel    `mapstructure:"hotels"`
}

type seedRoomType struct {
	Name        string `mapstructure:"typeName"`
	Description string `mapstructure:"description"`
}

type seedAmenity struct {
	Name        string `mapstructure:"amenityName"`
	Description string `mapstructure:"description"`
	Icon        string `mapstructure:"icon"`
}

type seedHotel struct {
	Name      string     `mapstructure:"name"`
	Address   string     `mapstructure:"address"`
	City      string     `mapstructure:"city"`
	Rating    float64    `mapstructure:"rating"`
	ImageURL  string     `mapstructure:"imageUrl"`
	Amenities []string   `mapstructure:"amenities"`
	Rooms     []seedRoom `mapstructure:"rooms"`
}

type seedRoom struct {
	RoomType  string   `mapstructure:"roomType"`
	Price     float64  `mapstructure:"price"`
	Booked    bool     `mapstructure:"booked"`
	Amenities []string `mapstructure:"amenities"`
}

type seedSummary struct {
	Hotels       int `json:"hotels"`
	Rooms        int `json:"rooms"`
	SkippedRooms int `json:"skippedRooms"`
	Failed       int `json:"failed"`
}

// typeLocks serialises the count-then-create of rooms per room type so concurrent hotel
// workers of one run cannot push a type past the cap.
type typeLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func (l *typeLocks) get(roomType string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.m == nil {
		l.m = make(map[string]*sync.Mutex)
	}
	m, ok := l.m[roomType]
	if !ok {
		m = &sync.Mutex{}
		l.m[roomType] = m
	}
	return m
}

func loadSeedFile(path string) (seedFile, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return seedFile{}, fmt.Errorf("read seed file: %w", err)
	}
	var f seedFile
	if err := v.Unmarshal(&f); err != nil {
		return seedFile{}, fmt.Errorf("decode seed file: %w", err)
	}
	return f, nil
}

func newSeedCmd(o *rootOpts) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Bulk-load room types, amenities, hotels and rooms from a JSON or YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := loadSeedFile(file)
			if err != nil {
				return err
			}
			cl, err := o.client()
			if err != nil {
				return err
			}
			sum, err := runSeed(cmd.Context(), cl, f, o.workers)
			if perr := printJSON(cmd.OutOrStdout(), sum); perr != nil && err == nil {
				err = perr
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "seed file path")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// runSeed creates the catalogs first, then loads hotels concurrently with at most workers
// in flight. A failing hotel is logged and counted; the rest continue.
func runSeed(ctx context.Context, cl *backoffice.Client, f seedFile, workers int) (seedSummary, error) {
	if workers <= 0 {
		workers = 1
	}
	for _, rt := range f.RoomTypes {
		if _, err := cl.CreateRoomType(ctx, backoffice.RoomTypeRequest{TypeName: rt.Name, Description: rt.Description}); err != nil {
			return seedSummary{}, fmt.Errorf("room type %q: %w", rt.Name, err)
		}
	}
	hotelAmenities, err := seedAmenities(ctx, cl, domain.HotelAmenity, f.HotelAmenities)
	if err != nil {
		return seedSummary{}, err
	}
	roomAmenities, err := seedAmenities(ctx, cl, domain.RoomAmenity, f.RoomAmenities)
	if err != nil {
		return seedSummary{}, err
	}

	var (
		mu    sync.Mutex
		sum   seedSummary
		wg    sync.WaitGroup
		locks typeLocks
	)
	sem := semaphore.NewWeighted(int64(workers))
	for _, h := range f.Hotels {
		h := h

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return sum, err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			rooms, skipped, err := seedHotelWithRooms(ctx, cl, h, hotelAmenities, roomAmenities, &locks)
			mu.Lock()
			defer mu.Unlock()
			sum.Rooms += rooms
			sum.SkippedRooms += skipped
			if err != nil {
				sum.Failed++
				log.Warn().Str("hotel", h.Name).Err(err).Msg("seed hotel failed")
				return
			}
			sum.Hotels++
			log.Debug().Str("hotel", h.Name).Int("rooms", rooms).Msg("seed hotel ok")
		}()
	}
	wg.Wait()
	if sum.Failed > 0 {
		return sum, fmt.Errorf("%d of %d hotels failed", sum.Failed, len(f.Hotels))
	}
	return sum, nil
}

func seedAmenities(ctx context.Context, cl *backoffice.Client, kind domain.AmenityKind, in []seedAmenity) (map[string]int64, error) {
	ids := make(map[string]int64, len(in))
	for _, a := range in {
		req := backoffice.AmenityRequest{Name: a.Name, Description: a.Description}
		if a.Icon != "" {
			icon := a.Icon
			req.Icon = &icon
		}
		created, err := cl.CreateAmenity(ctx, kind, req)
		if err != nil {
			return nil, fmt.Errorf("%s amenity %q: %w", kind, a.Name, err)
		}
		ids[a.Name] = created.ID
	}
	return ids, nil
}

func resolveNames(names []string, ids map[string]int64) ([]int64, error) {
	out := make([]int64, 0, len(names))
	for _, n := range names {
		id, ok := ids[n]
		if !ok {
			return nil, fmt.Errorf("unknown amenity %q", n)
		}
		out = append(out, id)
	}
	return out, nil
}

// seedHotelWithRooms returns the rooms created and the rooms skipped because their type was full.
func seedHotelWithRooms(ctx context.Context, cl *backoffice.Client, h seedHotel, hotelAmenities, roomAmenities map[string]int64, locks *typeLocks) (int, int, error) {
	ids, err := resolveNames(h.Amenities, hotelAmenities)
	if err != nil {
		return 0, 0, err
	}
	rating := h.Rating
	req := backoffice.HotelRequest{Name: h.Name, Address: h.Address, City: h.City, Rating: &rating}
	if h.ImageURL != "" {
		img := h.ImageURL
		req.ImageURL = &img
	}
	created, _, err := cl.CreateHotelWithAmenities(ctx, req, ids)
	if err != nil {
		return 0, 0, err
	}

	var rooms, skipped int
	for _, r := range h.Rooms {
		rids, err := resolveNames(r.Amenities, roomAmenities)
		if err != nil {
			return rooms, skipped, err
		}
		price, avail := r.Price, !r.Booked
		lock := locks.get(r.RoomType)
		lock.Lock()
		_, err = cl.CreateRoomChecked(ctx, backoffice.RoomRequest{
			HotelID:      &created.ID,
			RoomType:     r.RoomType,
			Price:        &price,
			Availability: &avail,
			AmenityIDs:   rids,
		})
		lock.Unlock()
		switch {
		case err == nil:
			rooms++
		case errors.Is(err, backoffice.ErrRoomTypeFull):
			skipped++
			log.Warn().Str("hotel", h.Name).Str("roomType", r.RoomType).Msg("room type full, room skipped")
		default:
			return rooms, skipped, fmt.Errorf("room %q: %w", r.RoomType, err)
		}
	}
	return rooms, skipped, nil
}
