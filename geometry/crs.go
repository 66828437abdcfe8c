// Package geometry is a thin facade over github.com/ctessum/geom, providing the spatial
// operations applied to RasterFrame rows: coordinate reference system lookup, geometry
// reprojection, rasterization and envelopes.
package geometry

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ctessum/geom/proj"
	"github.com/jbouffard/rasterframes/errors"
)

// LatLng is the identifier of the WGS84 geographic coordinate reference system
const LatLng = "EPSG:4326"

// WebMercator is the identifier of the spherical web mercator coordinate reference system
const WebMercator = "EPSG:3857"

var (
	registryLock sync.RWMutex
	registry     = map[string]string{
		LatLng:       "+proj=longlat +ellps=WGS84 +datum=WGS84 +no_defs",
		WebMercator:  "+proj=merc +a=6378137 +b=6378137 +lat_ts=0.0 +lon_0=0.0 +x_0=0.0 +y_0=0 +k=1.0 +units=m +nadgrids=@null +no_defs",
		"EPSG:54030": "+proj=robin +lon_0=0 +x_0=0 +y_0=0 +datum=WGS84 +units=m +no_defs",
	}
)

func init() {
	// UTM zones, north (326xx) and south (327xx)
	for zone := 1; zone <= 60; zone++ {
		registry[fmt.Sprintf("EPSG:326%02d", zone)] = fmt.Sprintf("+proj=utm +zone=%d +datum=WGS84 +units=m +no_defs", zone)
		registry[fmt.Sprintf("EPSG:327%02d", zone)] = fmt.Sprintf("+proj=utm +zone=%d +south +datum=WGS84 +units=m +no_defs", zone)
	}
}

// RegisterCRS makes a proj4 definition available under a name, such as "EPSG:2193"
func RegisterCRS(name string, proj4 string) error {
	if _, err := proj.Parse(proj4); err != nil {
		return fmt.Errorf("invalid proj4 definition for %s: %w", name, err)
	}
	registryLock.Lock()
	defer registryLock.Unlock()
	registry[normalizeCRS(name)] = proj4
	return nil
}

// IsKnownCRS returns true iff a CRS identifier is registered or is a proj4 definition
func IsKnownCRS(crs string) bool {
	_, err := ResolveCRS(crs)
	return err == nil
}

// ResolveCRS returns the proj4 definition for a CRS identifier. Identifiers are either
// registered names (case-insensitive, e.g. "epsg:4326") or raw proj4 strings.
func ResolveCRS(crs string) (string, error) {
	trimmed := strings.TrimSpace(crs)
	if strings.HasPrefix(trimmed, "+proj=") {
		return trimmed, nil
	}
	registryLock.RLock()
	defer registryLock.RUnlock()
	if def, ok := registry[normalizeCRS(trimmed)]; ok {
		return def, nil
	}
	return "", errors.UnknownCRSError{CRS: crs}
}

// ParseCRS resolves a CRS identifier to a spatial reference
func ParseCRS(crs string) (*proj.SR, error) {
	def, err := ResolveCRS(crs)
	if err != nil {
		return nil, err
	}
	return parseDefinition(crs, def)
}

func parseDefinition(crs string, def string) (*proj.SR, error) {
	sr, err := proj.Parse(def)
	if err != nil {
		return nil, errors.UnknownCRSError{CRS: crs}
	}
	return sr, nil
}

func normalizeCRS(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
