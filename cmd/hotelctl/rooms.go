package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hotel_backoffice/internal/adapters/backoffice"
	"hotel_backoffice/internal/domain"
)

func newRoomsCmd(o *rootOpts) *cobra.Command {
	cmd := &cobra.Command{Use: "rooms", Short: "List and create rooms"}

	var listType string
	list := &cobra.Command{
		Use:   "list",
		Short: "List rooms, optionally of one type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cl, err := o.client()
			if err != nil {
				return err
			}
			if listType != "" {
				page, err := cl.RoomsByType(cmd.Context(), listType)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), page)
			}
			rooms, err := cl.ListRooms(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rooms)
		},
	}
	list.Flags().StringVar(&listType, "type", "", "room type name")
	cmd.AddCommand(list)

	var countType string
	count := &cobra.Command{
		Use:   "count",
		Short: "Count rooms of a type against the per-type limit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cl, err := o.client()
			if err != nil {
				return err
			}
			page, err := cl.RoomsByType(cmd.Context(), countType)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d/%d\n", countType, page.Count, domain.MaxRoomsPerType)
			return err
		},
	}
	count.Flags().StringVar(&countType, "type", "", "room type name")
	_ = count.MarkFlagRequired("type")
	cmd.AddCommand(count)

	var (
		hotelID    int64
		roomType   string
		roomTypeID int64
		price      float64
		booked     bool
		amenities  string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a room unless its type is already full",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ids, err := parseIDs(amenities)
			if err != nil {
				return err
			}
			avail := !booked
			req := backoffice.RoomRequest{RoomType: roomType, Price: &price, Availability: &avail, AmenityIDs: ids}
			if hotelID > 0 {
				req.HotelID = &hotelID
			}
			if roomTypeID > 0 {
				req.RoomTypeID = &roomTypeID
			}
			cl, err := o.client()
			if err != nil {
				return err
			}
			r, err := cl.CreateRoomChecked(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), r)
		},
	}
	create.Flags().Int64Var(&hotelID, "hotel", 0, "hotel id")
	create.Flags().StringVar(&roomType, "type", "", "room type name")
	create.Flags().Int64Var(&roomTypeID, "type-id", 0, "room type id")
	create.Flags().Float64Var(&price, "price", 0, "nightly price")
	create.Flags().BoolVar(&booked, "booked", false, "create the room as unavailable")
	create.Flags().StringVar(&amenities, "amenities", "", "comma-separated room amenity ids")
	_ = create.MarkFlagRequired("price")
	cmd.AddCommand(create)

	var edit amenityEdit
	links := &cobra.Command{
		Use:   "amenities ROOM_ID",
		Short: "Replace a room's amenities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return edit.run(cmd, o, domain.RoomAmenity, id)
		},
	}
	edit.bind(links)
	cmd.AddCommand(links)

	return cmd
}

func newAmenitiesCmd(o *rootOpts) *cobra.Command {
	cmd := &cobra.Command{Use: "amenities", Short: "Browse amenity catalogs"}

	var kind string
	list := &cobra.Command{
		Use:   "list",
		Short: "List hotel or room amenities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			k := domain.AmenityKind(kind)
			if !k.Valid() {
				return fmt.Errorf("--kind must be %q or %q", domain.HotelAmenity, domain.RoomAmenity)
			}
			cl, err := o.client()
			if err != nil {
				return err
			}
			as, err := cl.ListAmenities(cmd.Context(), k)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), as)
		},
	}
	list.Flags().StringVar(&kind, "kind", string(domain.HotelAmenity), "hotel or room")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "icons",
		Short: "List the icon catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cl, err := o.client()
			if err != nil {
				return err
			}
			cats, err := cl.AmenityIcons(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), cats)
		},
	})
	return cmd
}
