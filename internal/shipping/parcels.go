package shipping

import (
	"math"
	"strings"

	"github.com/csmith-03/alliger-house-of-wings/internal/ordermath"
)

// Parcel is one box in a shipment request, dimensions in inches and weight
// in ounces.
type Parcel struct {
	Length       float64 `json:"length"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	DistanceUnit string  `json:"distance_unit"`
	Weight       int     `json:"weight"`
	MassUnit     string  `json:"mass_unit"`
}

type boxDims struct {
	length, width, height float64
}

type packRule struct {
	weightLbs float64
	box       boxDims
}

// Sauce ships in two packagings: 12oz bottles and gallon jugs. Each table
// maps a per-box unit count to the measured total weight and the box used
// for that count. Counts above the table max reuse the max entry.
var bottleRules = map[int]packRule{
	1:  {weightLbs: 3, box: boxDims{7, 7, 14}},
	2:  {weightLbs: 5, box: boxDims{7, 7, 14}},
	3:  {weightLbs: 6, box: boxDims{7, 7, 14}},
	4:  {weightLbs: 8, box: boxDims{7, 7, 14}},
	5:  {weightLbs: 10, box: boxDims{7, 7, 14}},
	6:  {weightLbs: 11, box: boxDims{13, 13, 13}},
	7:  {weightLbs: 12, box: boxDims{13, 13, 13}},
	8:  {weightLbs: 13, box: boxDims{13, 13, 13}},
	9:  {weightLbs: 14, box: boxDims{13, 13, 13}},
	10: {weightLbs: 15, box: boxDims{13, 13, 13}},
	11: {weightLbs: 17, box: boxDims{13, 13, 13}},
	12: {weightLbs: 19, box: boxDims{13, 13, 13}},
}

var gallonRules = map[int]packRule{
	1: {weightLbs: 11, box: boxDims{7, 7, 14}},
	2: {weightLbs: 22, box: boxDims{13.5, 7.875, 13.5625}},
	3: {weightLbs: 33, box: boxDims{13, 13, 13}},
	4: {weightLbs: 38, box: boxDims{13, 13, 13}},
}

const (
	maxBottlesPerBox = 12
	maxGallonsPerBox = 4
)

// CountUnits classifies line items by display name: anything containing
// "gallon" counts as gallon jugs, everything else defaults to bottles so a
// shipment always has weight and dimensions.
func CountUnits(items []ordermath.Line) (bottles, gallons int) {
	for _, item := range items {
		qty := item.Qty
		if qty < 1 {
			qty = 1
		}
		if strings.Contains(strings.ToLower(item.Name), "gallon") {
			gallons += qty
		} else {
			bottles += qty
		}
	}
	return bottles, gallons
}

// BuildParcels chunks unit counts into boxes: gallons up to 4 per box,
// bottles up to 12 per box. Bottle and gallon remainders always ship as
// separate parcels; they are never combined into one box.
func BuildParcels(bottles, gallons int) []Parcel {
	var parcels []Parcel

	left := max(0, gallons)
	for left > 0 {
		chunk := min(left, maxGallonsPerBox)
		parcels = append(parcels, parcelFor(gallonRules[chunk]))
		left -= chunk
	}

	left = max(0, bottles)
	for left > 0 {
		chunk := min(left, maxBottlesPerBox)
		parcels = append(parcels, parcelFor(bottleRules[chunk]))
		left -= chunk
	}

	if len(parcels) == 0 {
		// Always quote something shippable.
		parcels = append(parcels, Parcel{
			Length: 7, Width: 7, Height: 14,
			DistanceUnit: "in",
			Weight:       16, // 1 lb
			MassUnit:     "oz",
		})
	}
	return parcels
}

func parcelFor(rule packRule) Parcel {
	oz := int(math.Round(rule.weightLbs * 16))
	if oz < 1 {
		oz = 1
	}
	return Parcel{
		Length:       rule.box.length,
		Width:        rule.box.width,
		Height:       rule.box.height,
		DistanceUnit: "in",
		Weight:       oz,
		MassUnit:     "oz",
	}
}
