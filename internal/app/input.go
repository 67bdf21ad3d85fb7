package app

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"hotel_backoffice/internal/domain"
)

// Body is a decoded JSON request object. Form clients send numbers as strings,
// so numeric fields accept either.
type Body map[string]any

/********** alias registry **********/

var fieldAliases = map[string][]string{
	"amenityName": {"amenityName", "name"},
	"imageUrl":    {"imageUrl", "image_url", "image"},
	"roomType":    {"roomType", "room_type"},
	"typeName":    {"typeName", "type_name", "name"},
}

// lookup returns the first present, non-null value among key and its aliases.
func (b Body) lookup(key string) (any, bool) {
	keys, ok := fieldAliases[key]
	if !ok {
		keys = []string{key}
	}
	for _, k := range keys {
		if v, ok := b[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func invalid(field, format string, args ...any) error {
	return fmt.Errorf("%w: %s %s", domain.ErrValidation, field, fmt.Sprintf(format, args...))
}

// str returns the trimmed string at key; "" when absent.
func (b Body) str(key string) (string, error) {
	v, ok := b.lookup(key)
	if !ok {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", invalid(key, "must be a string")
	}
	return strings.TrimSpace(s), nil
}

// optStr is str with nil for absent or empty values.
func (b Body) optStr(key string) (*string, error) {
	s, err := b.str(key)
	if err != nil || s == "" {
		return nil, err
	}
	return &s, nil
}

// scalarHook prepares a JSON scalar for weak decoding: strings are trimmed (decimal commas
// become dots for float targets) and booleans, arrays, objects and fractional numbers are
// refused where the target does not take them.
func scalarHook(from, to reflect.Type, data any) (any, error) {
	for to.Kind() == reflect.Pointer {
		to = to.Elem()
	}
	switch from.Kind() {
	case reflect.Slice, reflect.Map:
		return nil, fmt.Errorf("must be a %s", to.Kind())
	case reflect.Bool:
		if to.Kind() != reflect.Bool {
			return nil, fmt.Errorf("must be a %s", to.Kind())
		}
	case reflect.Float64:
		if f := data.(float64); to.Kind() == reflect.Int64 && f != math.Trunc(f) {
			return nil, fmt.Errorf("must be an integer, got %v", f)
		}
	case reflect.String:
		s := strings.TrimSpace(data.(string))
		if to.Kind() == reflect.Float64 {
			s = strings.ReplaceAll(s, ",", ".")
		}
		return s, nil
	}
	return data, nil
}

// coerce weakly decodes one JSON scalar into T. Absent, null and blank strings yield nil;
// mapstructure alone would turn "" into a zero value, which reads as "set to zero".
func coerce[T any](v any) (*T, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out *T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.DecodeHookFuncType(scalarHook),
		Result:           &out,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(v); err != nil {
		return nil, err
	}
	return out, nil
}

// float accepts a JSON number or a numeric string ("4.5", "4,5"). Absent, null and ""
// yield nil.
func (b Body) float(key string) (*float64, error) {
	v, _ := b.lookup(key)
	f, err := coerce[float64](v)
	if err != nil {
		return nil, invalid(key, "must be a number, got %v", v)
	}
	if f != nil && (math.IsNaN(*f) || math.IsInf(*f, 0)) {
		return nil, invalid(key, "must be a number, got %v", v)
	}
	return f, nil
}

func (b Body) integer(key string) (*int64, error) {
	v, _ := b.lookup(key)
	id, err := coerce[int64](v)
	if err != nil {
		return nil, invalid(key, "must be an integer, got %v", v)
	}
	return id, nil
}

// boolean accepts true/false or their string forms.
func (b Body) boolean(key string) (*bool, error) {
	v, _ := b.lookup(key)
	p, err := coerce[bool](v)
	if err != nil {
		return nil, invalid(key, "must be true or false, got %v", v)
	}
	return p, nil
}

// ids returns the id list at key. Absent yields nil; an empty array yields an empty,
// non-nil slice.
func (b Body) ids(key string) ([]int64, error) {
	v, ok := b.lookup(key)
	if !ok {
		return nil, nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, invalid(key, "must be an array of ids")
	}
	out := make([]int64, 0, len(arr))
	for i, e := range arr {
		n, err := coerce[int64](e)
		if err != nil || n == nil || *n <= 0 {
			return nil, invalid(key, "element %d is not a valid id", i)
		}
		out = append(out, *n)
	}
	return out, nil
}

/********** hotels **********/

type HotelInput struct {
	Name, Address, City string
	Rating              *float64
	ImageURL            *string
	// AmenityIDs is nil when the body carries no amenityIds.
	AmenityIDs []int64
}

func DecodeHotel(b Body) (HotelInput, error) {
	var (
		in  HotelInput
		err error
	)
	if in.Name, err = b.str("name"); err != nil {
		return in, err
	}
	if in.Address, err = b.str("address"); err != nil {
		return in, err
	}
	if in.City, err = b.str("city"); err != nil {
		return in, err
	}
	if in.Rating, err = b.float("rating"); err != nil {
		return in, err
	}
	if in.ImageURL, err = b.optStr("imageUrl"); err != nil {
		return in, err
	}
	in.AmenityIDs, err = b.ids("amenityIds")
	return in, err
}

func checkRating(r float64) error {
	if r < domain.MinRating || r > domain.MaxRating {
		return invalid("rating", "must be between %.0f and %.0f", domain.MinRating, domain.MaxRating)
	}
	return nil
}

// NewHotel validates a create request.
func (in HotelInput) NewHotel() (domain.Hotel, error) {
	if in.Name == "" || in.Address == "" || in.City == "" || in.Rating == nil {
		return domain.Hotel{}, fmt.Errorf("%w: name, address, city and rating are required", domain.ErrValidation)
	}
	if err := checkRating(*in.Rating); err != nil {
		return domain.Hotel{}, err
	}
	return domain.Hotel{
		Name:     in.Name,
		Address:  in.Address,
		City:     in.City,
		Rating:   *in.Rating,
		ImageURL: in.ImageURL,
	}, nil
}

// Apply merges a partial update into h; empty fields keep the persisted value.
func (in HotelInput) Apply(h domain.Hotel) (domain.Hotel, error) {
	h.Name = orKeep(in.Name, h.Name)
	h.Address = orKeep(in.Address, h.Address)
	h.City = orKeep(in.City, h.City)
	if in.Rating != nil {
		if err := checkRating(*in.Rating); err != nil {
			return domain.Hotel{}, err
		}
		h.Rating = *in.Rating
	}
	if in.ImageURL != nil {
		h.ImageURL = in.ImageURL
	}
	return h, nil
}

func orKeep(v, current string) string {
	if v == "" {
		return current
	}
	return v
}

/********** rooms **********/

type RoomInput struct {
	HotelID      *int64
	RoomType     string
	RoomTypeID   *int64
	Price        *float64
	Availability *bool
	ImageURL     *string
	AmenityIDs   []int64
}

func DecodeRoom(b Body) (RoomInput, error) {
	var (
		in  RoomInput
		err error
	)
	if in.HotelID, err = b.integer("hotelId"); err != nil {
		return in, err
	}
	if in.RoomType, err = b.str("roomType"); err != nil {
		return in, err
	}
	if in.RoomTypeID, err = b.integer("roomTypeId"); err != nil {
		return in, err
	}
	if in.Price, err = b.float("price"); err != nil {
		return in, err
	}
	if in.Availability, err = b.boolean("availability"); err != nil {
		return in, err
	}
	if in.ImageURL, err = b.optStr("imageUrl"); err != nil {
		return in, err
	}
	if in.AmenityIDs, err = b.ids("amenityIds"); err != nil {
		return in, err
	}
	return in, in.checkRefs()
}

func (in RoomInput) checkRefs() error {
	if in.HotelID != nil && *in.HotelID <= 0 {
		return invalid("hotelId", "must be a positive id")
	}
	if in.RoomTypeID != nil && *in.RoomTypeID <= 0 {
		return invalid("roomTypeId", "must be a positive id")
	}
	if in.Price != nil && *in.Price < 0 {
		return invalid("price", "must not be negative")
	}
	return nil
}

// NewRoom validates a create request. roomType may be empty when roomTypeId is set;
// the caller fills it from the room type.
func (in RoomInput) NewRoom() (domain.Room, error) {
	if in.Price == nil {
		return domain.Room{}, fmt.Errorf("%w: price is required", domain.ErrValidation)
	}
	if in.RoomType == "" && in.RoomTypeID == nil {
		return domain.Room{}, fmt.Errorf("%w: roomType or roomTypeId is required", domain.ErrValidation)
	}
	r := domain.Room{
		HotelID:      in.HotelID,
		RoomType:     in.RoomType,
		RoomTypeID:   in.RoomTypeID,
		Price:        *in.Price,
		Availability: true,
		ImageURL:     in.ImageURL,
	}
	if in.Availability != nil {
		r.Availability = *in.Availability
	}
	return r, nil
}

func (in RoomInput) Apply(r domain.Room) domain.Room {
	if in.HotelID != nil {
		r.HotelID = in.HotelID
	}
	r.RoomType = orKeep(in.RoomType, r.RoomType)
	if in.RoomTypeID != nil {
		r.RoomTypeID = in.RoomTypeID
	}
	if in.Price != nil {
		r.Price = *in.Price
	}
	if in.Availability != nil {
		r.Availability = *in.Availability
	}
	if in.ImageURL != nil {
		r.ImageURL = in.ImageURL
	}
	return r
}

/********** room types & amenities **********/

type RoomTypeInput struct {
	TypeName, Description string
}

func DecodeRoomType(b Body) (RoomTypeInput, error) {
	var (
		in  RoomTypeInput
		err error
	)
	if in.TypeName, err = b.str("typeName"); err != nil {
		return in, err
	}
	in.Description, err = b.str("description")
	return in, err
}

type AmenityInput struct {
	Name, Description string
	Icon              *string
}

func DecodeAmenity(b Body) (AmenityInput, error) {
	var (
		in  AmenityInput
		err error
	)
	if in.Name, err = b.str("amenityName"); err != nil {
		return in, err
	}
	if in.Description, err = b.str("description"); err != nil {
		return in, err
	}
	in.Icon, err = b.optStr("icon")
	return in, err
}

func (in AmenityInput) NewAmenity() (domain.Amenity, error) {
	if in.Name == "" {
		return domain.Amenity{}, fmt.Errorf("%w: amenityName is required", domain.ErrValidation)
	}
	return domain.Amenity{Name: in.Name, Description: in.Description, Icon: in.Icon}, nil
}

func (in AmenityInput) Apply(a domain.Amenity) domain.Amenity {
	a.Name = orKeep(in.Name, a.Name)
	a.Description = orKeep(in.Description, a.Description)
	if in.Icon != nil {
		a.Icon = in.Icon
	}
	return a
}

/********** links **********/

type LinkRequest struct {
	OwnerID int64
	Action  domain.LinkAction
}

// DecodeLink reads {hotelId|roomId, action}; the owner key depends on kind.
func DecodeLink(kind domain.AmenityKind, b Body) (LinkRequest, error) {
	field := kind.OwnerField()
	owner, err := b.integer(field)
	if err != nil {
		return LinkRequest{}, err
	}
	action, err := b.str("action")
	if err != nil {
		return LinkRequest{}, err
	}
	if owner == nil || *owner <= 0 || action == "" {
		return LinkRequest{}, fmt.Errorf("%w: %s and action are required", domain.ErrValidation, field)
	}
	a, err := domain.ParseLinkAction(action)
	if err != nil {
		return LinkRequest{}, err
	}
	return LinkRequest{OwnerID: *owner, Action: a}, nil
}

// DecodeAmenityIDs reads the required amenityIds array of a replace request.
func DecodeAmenityIDs(b Body) ([]int64, error) {
	ids, err := b.ids("amenityIds")
	if err != nil {
		return nil, err
	}
	if ids == nil {
		return nil, fmt.Errorf("%w: amenityIds is required", domain.ErrValidation)
	}
	return ids, nil
}
