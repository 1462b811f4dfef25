package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mwhitfield/stormview/internal/basemap"
	"github.com/mwhitfield/stormview/internal/locations"
	"github.com/mwhitfield/stormview/internal/models"
	"github.com/mwhitfield/stormview/internal/ui"
)

var (
	locationName string
	lat          float64
	lon          float64
	zoom         int
	basemapPath  string
	saveAs       string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "stormview",
		Short: "Weather dashboard with an animated radar and alert overlay",
		Long: `Stormview is a terminal weather dashboard. Opening the radar overlay
animates recent precipitation frames over a map of the current viewport,
with active hazard alerts drawn as severity-colored polygons.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	rootCmd.Flags().StringVarP(&locationName, "location", "l", "", "Name of a saved location to open")
	rootCmd.Flags().Float64Var(&lat, "lat", 39.0, "Viewport center latitude")
	rootCmd.Flags().Float64Var(&lon, "lon", -97.0, "Viewport center longitude")
	rootCmd.Flags().IntVar(&zoom, "zoom", 7, "Viewport zoom level")
	rootCmd.Flags().StringVar(&basemapPath, "basemap", "", "Optional shapefile with reference outlines")
	rootCmd.Flags().StringVar(&saveAs, "save-as", "", "Save the viewport under this name and exit")

	addLocationsCmd(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	repo := locations.NewRepository()

	name := "Custom viewport"
	vp := models.Viewport{Lat: lat, Lon: lon, Zoom: zoom}

	if locationName != "" {
		loc, err := repo.Get(locationName)
		if err != nil {
			return err
		}
		name = loc.Name
		vp = loc.Viewport
	}

	if saveAs != "" {
		loc := &locations.Location{Name: saveAs, Viewport: vp}
		if err := repo.Save(loc); err != nil {
			return err
		}
		fmt.Printf("Saved %q at %.4f, %.4f (zoom %d)\n", saveAs, vp.Lat, vp.Lon, vp.Zoom)
		return nil
	}

	bounds := boundsFor(vp)

	var outlines []models.Geometry
	if basemapPath != "" {
		loaded, err := basemap.Load(basemapPath)
		if err != nil {
			return fmt.Errorf("loading basemap: %w", err)
		}
		outlines = basemap.Clip(loaded, bounds)
	}

	p := tea.NewProgram(ui.NewModel(name, vp, bounds, outlines), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running application: %w", err)
	}
	return nil
}

// boundsFor derives visible bounds from a viewport: each zoom step in
// halves the span, anchored at ~45 degrees of longitude for zoom 4.
func boundsFor(vp models.Viewport) models.Bounds {
	span := 45.0
	for z := 4; z < vp.Zoom; z++ {
		span /= 2
	}
	return models.Bounds{
		North: vp.Lat + span/4,
		South: vp.Lat - span/4,
		East:  vp.Lon + span/2,
		West:  vp.Lon - span/2,
	}
}

// addLocationsCmd registers the saved-location listing subcommand.
func addLocationsCmd(root *cobra.Command) {
	root.AddCommand(&cobra.Command{
		Use:   "locations",
		Short: "List saved locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := locations.NewRepository().List()
			if err != nil {
				return err
			}
			if len(all) == 0 {
				cmd.Println("No saved locations. Use --save-as to add one.")
				return nil
			}
			for _, loc := range all {
				cmd.Printf("%-20s %.4f, %.4f (zoom %d)\n", loc.Name, loc.Viewport.Lat, loc.Viewport.Lon, loc.Viewport.Zoom)
			}
			return nil
		},
	})
}
