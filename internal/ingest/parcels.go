package ingest

import (
	"fmt"
	"strings"

	shp "github.com/jonas-p/go-shp"

	"landshare/internal/types"
)

// Attribute fields read from a parcel layer's DBF table.
const (
	fieldKhewat = "KHEWAT"
	fieldMarba  = "MARBA"
	fieldKilla  = "KILLA"
	fieldKanal  = "KANAL"
	fieldMarla  = "MARLA"
)

// Parcel is the recorded area of one estate in a parcel layer.
type Parcel struct {
	Estate types.EstateID
	Kanal  float64
	Marla  float64
}

// Parcels indexes parcel areas by estate.
type Parcels map[types.EstateID]Parcel

// LoadParcels reads the attribute table of a polygon shapefile. Only the
// KHEWAT, MARBA, KILLA, KANAL and MARLA attributes are used; the polygon
// geometry itself is not.
func LoadParcels(path string) (Parcels, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parcel layer %s: %w", path, err)
	}
	defer r.Close()

	cols := make(map[string]int)
	for i, f := range r.Fields() {
		cols[strings.ToUpper(strings.TrimSpace(f.String()))] = i
	}
	var missing []string
	for _, name := range []string{fieldKhewat, fieldMarba, fieldKilla, fieldKanal} {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("parcel layer %s: %w: %s", path, ErrMissingColumns, strings.Join(missing, ", "))
	}

	attr := func(idx int, name string) string {
		i, ok := cols[name]
		if !ok {
			return ""
		}
		return strings.TrimSpace(r.ReadAttribute(idx, i))
	}

	parcels := make(Parcels)
	for r.Next() {
		idx, shape := r.Shape()
		if _, ok := shape.(*shp.Polygon); !ok {
			continue
		}
		kanal, err := parseNumber(attr(idx, fieldKanal))
		if err != nil {
			return nil, fmt.Errorf("parcel %d: %s: %w", idx+1, fieldKanal, err)
		}
		marla, err := parseNumber(attr(idx, fieldMarla))
		if err != nil {
			return nil, fmt.Errorf("parcel %d: %s: %w", idx+1, fieldMarla, err)
		}
		id := types.NewEstateID(
			normalizeID(attr(idx, fieldKhewat)),
			normalizeID(attr(idx, fieldMarba)),
			normalizeID(attr(idx, fieldKilla)),
		)
		parcels[id] = Parcel{Estate: id, Kanal: kanal, Marla: marla}
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("read parcel layer %s: %w", path, err)
	}
	return parcels, nil
}

// Fill copies the parcel area into rows whose total area is blank. It
// returns how many rows were filled.
func (p Parcels) Fill(rows []types.RowSpec) int {
	filled := 0
	for i := range rows {
		if rows[i].TotalKanal != 0 || rows[i].TotalMarla != 0 {
			continue
		}
		parcel, ok := p[rows[i].Estate()]
		if !ok {
			continue
		}
		rows[i].TotalKanal = parcel.Kanal
		rows[i].TotalMarla = parcel.Marla
		filled++
	}
	return filled
}
