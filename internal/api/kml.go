package api

import (
	"fmt"
	"image/color"

	"github.com/gofiber/fiber/v2"
	"github.com/twpayne/go-kml/v2"

	"github.com/safence/sentinelguard/internal/registry"
)

// ExportKMLHandler renders the currently filtered devices and zones as a
// KML document, for loading the deployment into external GIS tooling.
func ExportKMLHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		devices := deps.Maps.FilteredDevices()
		zones := deps.Maps.FilteredZones()

		doc := kml.Document(
			kml.Name("SentinelGuard Deployment"),
			kml.Description("Monitored devices and risk zones"),
		)

		for _, status := range registry.AllStatuses() {
			doc.Add(kml.SharedStyle(
				"device-"+string(status),
				kml.IconStyle(
					kml.Color(parseHexColor(status.MarkerColor(), 255)),
				),
			))
			doc.Add(kml.SharedStyle(
				"zone-"+string(status),
				kml.LineStyle(
					kml.Color(parseHexColor(status.MarkerColor(), 255)),
					kml.Width(2),
				),
				kml.PolyStyle(
					kml.Color(parseHexColor(status.MarkerColor(), 64)),
				),
			))
		}

		for _, d := range devices {
			doc.Add(kml.Placemark(
				kml.Name(d.Name),
				kml.Description(fmt.Sprintf("%s | %s | %s, %s", d.Type, d.Status, d.District, d.State)),
				kml.StyleURL("#device-"+string(d.Status)),
				kml.Point(
					kml.Coordinates(kml.Coordinate{Lon: d.Position.Longitude, Lat: d.Position.Latitude}),
				),
			))
		}

		for _, z := range zones {
			corners := z.Bounds.Corners()
			coords := make([]kml.Coordinate, 0, len(corners)+1)
			for _, p := range corners {
				coords = append(coords, kml.Coordinate{Lon: p.Longitude, Lat: p.Latitude})
			}
			// A LinearRing closes on its first coordinate.
			coords = append(coords, coords[0])

			doc.Add(kml.Placemark(
				kml.Name(z.Name),
				kml.StyleURL("#zone-"+string(z.Type)),
				kml.Polygon(
					kml.OuterBoundaryIs(
						kml.LinearRing(kml.Coordinates(coords...)),
					),
				),
			))
		}

		c.Set(fiber.HeaderContentType, "application/vnd.google-earth.kml+xml")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="sentinelguard.kml"`)

		buf := c.Response().BodyWriter()
		if err := kml.KML(doc).WriteIndent(buf, "", "  "); err != nil {
			return errUnavailable(c, "failed to render KML: "+err.Error())
		}
		return nil
	}
}

// parseHexColor converts a "#RRGGBB" hex string to a color with the given
// alpha. Unparseable strings come back gray.
func parseHexColor(hex string, alpha uint8) color.Color {
	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{R: 0x6B, G: 0x72, B: 0x80, A: alpha}
	}
	return color.RGBA{R: r, G: g, B: b, A: alpha}
}
