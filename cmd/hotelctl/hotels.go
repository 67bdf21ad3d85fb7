package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"hotel_backoffice/internal/adapters/backoffice"
	"hotel_backoffice/internal/domain"
)

func newHotelsCmd(o *rootOpts) *cobra.Command {
	cmd := &cobra.Command{Use: "hotels", Short: "List, create and edit hotels"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List hotels with their rooms and amenities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cl, err := o.client()
			if err != nil {
				return err
			}
			hs, err := cl.ListHotels(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), hs)
		},
	})

	var (
		req       backoffice.HotelRequest
		rating    float64
		image     string
		amenities string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a hotel, optionally linking amenities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ids, err := parseIDs(amenities)
			if err != nil {
				return err
			}
			req.Rating = &rating
			if image != "" {
				req.ImageURL = &image
			}
			cl, err := o.client()
			if err != nil {
				return err
			}
			h, _, err := cl.CreateHotelWithAmenities(cmd.Context(), req, ids)
			if h.ID != 0 {
				if perr := printJSON(cmd.OutOrStdout(), h); perr != nil && err == nil {
					err = perr
				}
			}
			return err
		},
	}
	create.Flags().StringVar(&req.Name, "name", "", "hotel name")
	create.Flags().StringVar(&req.Address, "address", "", "street address")
	create.Flags().StringVar(&req.City, "city", "", "city")
	create.Flags().Float64Var(&rating, "rating", 0, "rating between 1 and 5")
	create.Flags().StringVar(&image, "image", "", "image URL")
	create.Flags().StringVar(&amenities, "amenities", "", "comma-separated hotel amenity ids")
	for _, f := range []string{"name", "address", "city", "rating"} {
		_ = create.MarkFlagRequired(f)
	}
	cmd.AddCommand(create)

	var edit amenityEdit
	links := &cobra.Command{
		Use:   "amenities HOTEL_ID",
		Short: "Replace a hotel's amenities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return edit.run(cmd, o, domain.HotelAmenity, id)
		},
	}
	edit.bind(links)
	cmd.AddCommand(links)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete HOTEL_ID",
		Short: "Delete a hotel without rooms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			cl, err := o.client()
			if err != nil {
				return err
			}
			if err := cl.DeleteHotel(cmd.Context(), id); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "hotel %d deleted\n", id)
			return err
		},
	})
	return cmd
}

// amenityEdit holds the flags shared by `hotels amenities` and `rooms amenities`.
type amenityEdit struct {
	set      string
	original string
	perLink  bool
}

func (e *amenityEdit) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&e.set, "set", "", "comma-separated amenity ids; empty clears all links")
	cmd.Flags().BoolVar(&e.perLink, "per-link", false, "apply one link/unlink call per change instead of a single replace")
	cmd.Flags().StringVar(&e.original, "original", "", "ids linked when the edit started; implies --per-link and skips re-reading the owner")
}

// run replaces an owner's links atomically, or pair by pair when --per-link or --original is set.
func (e *amenityEdit) run(cmd *cobra.Command, o *rootOpts, kind domain.AmenityKind, ownerID int64) error {
	ids, err := parseIDs(e.set)
	if err != nil {
		return err
	}
	cl, err := o.client()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	fromOriginal := cmd.Flags().Changed("original")
	if !e.perLink && !fromOriginal {
		diff, err := cl.SetAmenities(ctx, kind, ownerID, ids)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), diff)
	}

	var original []int64
	if fromOriginal {
		if original, err = parseIDs(e.original); err != nil {
			return err
		}
	}
	var rep backoffice.ReconcileReport
	switch {
	case !fromOriginal:
		rep, err = cl.Reconcile(ctx, kind, ownerID, ids, o.workers)
	case kind == domain.RoomAmenity:
		rep, err = cl.ReconcileRoomAmenities(ctx, ownerID, original, ids, o.workers)
	default:
		rep, err = cl.ReconcileHotelAmenities(ctx, ownerID, original, ids, o.workers)
	}
	for id, ferr := range rep.Failed {
		log.Warn().Int64("amenity", id).Err(ferr).Msg("link change failed")
	}
	if perr := printJSON(cmd.OutOrStdout(), domain.LinkDiff{Link: rep.Linked, Unlink: rep.Unlinked}); perr != nil && err == nil {
		err = perr
	}
	return err
}
