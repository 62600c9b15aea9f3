package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/storefront/internal/carousel"
	"github.com/mesh-intelligence/storefront/internal/filter"
	"github.com/mesh-intelligence/storefront/internal/schedule"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

type carouselView struct {
	Preset       string `json:"preset"`
	Visible      int    `json:"visible"`
	MoveDistance int    `json:"move_distance"`
	MaxPosition  int    `json:"max_position"`
	Positions    []int  `json:"positions"`
}

// offsetRecorder collects every offset the engine renders.
type offsetRecorder struct {
	offsets []int
}

func (r *offsetRecorder) SetOffset(position int) { r.offsets = append(r.offsets, position) }
func (r *offsetRecorder) SetControls(bool, bool) {}

var presets = map[string]carousel.Preset{
	carousel.Product.Name:     carousel.Product,
	carousel.Testimonial.Name: carousel.Testimonial,
}

func newCarouselCmd(a *app) *cobra.Command {
	var (
		presetName string
		visible    int
		width      int
		steps      int
		direction  string
		category   string
		auto       bool
	)
	cmd := &cobra.Command{
		Use:   "carousel",
		Short: "Simulate carousel steps and print each position",
		Long: "Step a carousel over the catalog and print the offset after every step.\n" +
			"With --auto the steps come from the auto-advance timer instead of manual clicks.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			preset, ok := presets[presetName]
			if !ok {
				return userError("unknown preset %q (product or testimonial)", presetName)
			}
			dir := types.Direction(direction)
			if dir != types.DirectionNext && dir != types.DirectionPrev {
				return userError("--dir must be %s or %s", types.DirectionNext, types.DirectionPrev)
			}
			if steps < 0 {
				return userError("--steps must not be negative")
			}
			if visible < 0 {
				n, err := a.catalogVisible(preset, category)
				if err != nil {
					return err
				}
				visible = n
			}

			clock := schedule.NewManualClock()
			rec := &offsetRecorder{}
			e := carousel.New(preset, rec, schedule.New(clock, schedule.Inline{}),
				carousel.WithLogger(a.logger.Named("carousel")),
				carousel.WithItemWidth(width))
			// The product carousel only auto-advances under the "all" category.
			e.Init(visible, auto && (preset.Name != carousel.Product.Name || category == filter.CategoryAll))
			defer e.Stop()

			rec.offsets = nil
			for range steps {
				switch {
				case auto:
					clock.Advance(preset.Interval)
				case dir == types.DirectionNext:
					e.Next()
				default:
					e.Prev()
				}
			}

			view := carouselView{
				Preset:       preset.Name,
				Visible:      visible,
				MoveDistance: e.MoveDistance(),
				MaxPosition:  e.MaxPosition(),
				Positions:    rec.offsets,
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), view)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s carousel: %d visible, step %dpx, max %dpx\n",
				view.Preset, view.Visible, view.MoveDistance, view.MaxPosition)
			for i, pos := range view.Positions {
				at := ""
				if auto {
					at = fmt.Sprintf(" at %s", time.Duration(i+1)*preset.Interval)
				}
				fmt.Fprintf(w, "%3d: %6d%s\n", i+1, pos, at)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&presetName, "preset", carousel.Product.Name, "carousel preset: product or testimonial")
	f.IntVar(&visible, "visible", -1, "visible item count (default: from the catalog)")
	f.IntVar(&width, "width", 0, "measured item width in pixels (default: preset step)")
	f.IntVar(&steps, "steps", 10, "number of steps")
	f.StringVar(&direction, "dir", string(types.DirectionNext), "manual step direction: next or prev")
	f.StringVar(&category, "category", filter.CategoryAll, "product category filter used for the visible count")
	f.BoolVar(&auto, "auto", false, "advance with the auto-advance timer")
	return cmd
}

// catalogVisible counts the catalog items a preset shows.
func (a *app) catalogVisible(preset carousel.Preset, category string) (int, error) {
	catalog, err := loadCatalog(a.cfg.Catalog)
	if err != nil {
		return 0, userError("%w", err)
	}
	if preset.Name == carousel.Testimonial.Name {
		return len(catalog.Testimonials), nil
	}
	return filter.New(catalog.Products).ApplyCategory(category).VisibleCount, nil
}
