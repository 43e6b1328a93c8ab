package model

import (
	"fmt"
	"strings"
	"unicode"
)

// CropName is a normalized crop identifier (lower-case, trimmed).
type CropName string

const (
	Rice        CropName = "rice"
	Wheat       CropName = "wheat"
	Maize       CropName = "maize"
	Barley      CropName = "barley"
	Chickpea    CropName = "chickpea"
	Lentil      CropName = "lentil"
	Blackgram   CropName = "blackgram"
	Mungbean    CropName = "mungbean"
	Mothbeans   CropName = "mothbeans"
	Pigeonpeas  CropName = "pigeonpeas"
	Kidneybeans CropName = "kidneybeans"
	Soybean     CropName = "soybean"
	Groundnut   CropName = "groundnut"
	Mustard     CropName = "mustard"
	Cotton      CropName = "cotton"
	Jute        CropName = "jute"
	Coffee      CropName = "coffee"
	Banana      CropName = "banana"
	Mango       CropName = "mango"
	Papaya      CropName = "papaya"
	Coconut     CropName = "coconut"
	Orange      CropName = "orange"
	Pomegranate CropName = "pomegranate"
	Watermelon  CropName = "watermelon"
	Muskmelon   CropName = "muskmelon"
	Grapes      CropName = "grapes"
	Apple       CropName = "apple"
	Pear        CropName = "pear"
	Plum        CropName = "plum"
	Tomato      CropName = "tomato"
	Potato      CropName = "potato"
	Onion       CropName = "onion"
	Sugarcane   CropName = "sugarcane"
)

// ParseCropName normalizes a raw crop label coming from a classifier, a
// database row or a request body.
func ParseCropName(raw string) (CropName, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		return "", ErrInvalidCropName
	}
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			continue
		}
		return "", fmt.Errorf("%w: %q", ErrInvalidCropName, raw)
	}
	return CropName(name), nil
}

func (c CropName) String() string { return string(c) }

// CropProfile holds the viable rainfall (mm/month) and temperature (°C) ranges of a crop.
type CropProfile struct {
	Crop        CropName `json:"crop"`
	RainfallMin float64  `json:"rainfall_min"`
	RainfallMax float64  `json:"rainfall_max"`
	TempMin     float64  `json:"temp_min"`
	TempMax     float64  `json:"temp_max"`
}

// CropCatalog is the read-only set of known crop profiles. It is built once at
// start-up and shared by every request.
type CropCatalog struct {
	profiles map[CropName]CropProfile
	order    []CropName
}

// NewCropCatalog builds a catalog. Later profiles replace earlier ones with
// the same crop name, which lets stored profiles override the defaults.
func NewCropCatalog(profiles ...[]CropProfile) *CropCatalog {
	c := &CropCatalog{profiles: make(map[CropName]CropProfile)}
	for _, set := range profiles {
		for _, p := range set {
			if _, exists := c.profiles[p.Crop]; !exists {
				c.order = append(c.order, p.Crop)
			}
			c.profiles[p.Crop] = p
		}
	}
	return c
}

func (c *CropCatalog) Lookup(crop CropName) (CropProfile, bool) {
	p, ok := c.profiles[crop]
	return p, ok
}

// Profiles returns a copy of the catalog in insertion order.
func (c *CropCatalog) Profiles() []CropProfile {
	out := make([]CropProfile, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.profiles[name])
	}
	return out
}

func (c *CropCatalog) Len() int { return len(c.order) }

// DefaultCropProfiles returns the built-in reference ranges.
func DefaultCropProfiles() []CropProfile {
	return []CropProfile{
		// Cereals
		{Crop: Rice, RainfallMin: 100, RainfallMax: 300, TempMin: 22, TempMax: 35},
		{Crop: Wheat, RainfallMin: 30, RainfallMax: 120, TempMin: 10, TempMax: 25},
		{Crop: Maize, RainfallMin: 50, RainfallMax: 200, TempMin: 18, TempMax: 32},
		{Crop: Barley, RainfallMin: 25, RainfallMax: 100, TempMin: 12, TempMax: 25},
		// Pulses
		{Crop: Chickpea, RainfallMin: 20, RainfallMax: 80, TempMin: 15, TempMax: 30},
		{Crop: Lentil, RainfallMin: 30, RainfallMax: 100, TempMin: 15, TempMax: 25},
		{Crop: Blackgram, RainfallMin: 60, RainfallMax: 150, TempMin: 25, TempMax: 35},
		{Crop: Mungbean, RainfallMin: 60, RainfallMax: 150, TempMin: 25, TempMax: 35},
		{Crop: Mothbeans, RainfallMin: 20, RainfallMax: 60, TempMin: 25, TempMax: 38},
		{Crop: Pigeonpeas, RainfallMin: 60, RainfallMax: 200, TempMin: 20, TempMax: 35},
		{Crop: Kidneybeans, RainfallMin: 60, RainfallMax: 150, TempMin: 18, TempMax: 30},
		// Oilseeds
		{Crop: Soybean, RainfallMin: 500, RainfallMax: 900, TempMin: 20, TempMax: 30},
		{Crop: Groundnut, RainfallMin: 500, RainfallMax: 800, TempMin: 25, TempMax: 35},
		{Crop: Mustard, RainfallMin: 40, RainfallMax: 100, TempMin: 10, TempMax: 25},
		// Commercial
		{Crop: Cotton, RainfallMin: 50, RainfallMax: 200, TempMin: 20, TempMax: 35},
		{Crop: Jute, RainfallMin: 150, RainfallMax: 300, TempMin: 24, TempMax: 35},
		{Crop: Coffee, RainfallMin: 120, RainfallMax: 250, TempMin: 18, TempMax: 24},
		// Tropical fruits
		{Crop: Banana, RainfallMin: 80, RainfallMax: 250, TempMin: 20, TempMax: 35},
		{Crop: Mango, RainfallMin: 50, RainfallMax: 200, TempMin: 24, TempMax: 35},
		{Crop: Papaya, RainfallMin: 80, RainfallMax: 200, TempMin: 22, TempMax: 35},
		{Crop: Coconut, RainfallMin: 100, RainfallMax: 300, TempMin: 22, TempMax: 35},
		{Crop: Orange, RainfallMin: 60, RainfallMax: 200, TempMin: 15, TempMax: 30},
		{Crop: Pomegranate, RainfallMin: 40, RainfallMax: 150, TempMin: 20, TempMax: 35},
		{Crop: Watermelon, RainfallMin: 40, RainfallMax: 100, TempMin: 22, TempMax: 35},
		{Crop: Muskmelon, RainfallMin: 40, RainfallMax: 100, TempMin: 22, TempMax: 35},
		{Crop: Grapes, RainfallMin: 30, RainfallMax: 120, TempMin: 15, TempMax: 35},
		// Temperate fruits
		{Crop: Apple, RainfallMin: 60, RainfallMax: 150, TempMin: 5, TempMax: 22},
		{Crop: Pear, RainfallMin: 60, RainfallMax: 150, TempMin: 5, TempMax: 22},
		{Crop: Plum, RainfallMin: 50, RainfallMax: 140, TempMin: 5, TempMax: 22},
		// Vegetables
		{Crop: Tomato, RainfallMin: 600, RainfallMax: 800, TempMin: 18, TempMax: 30},
		{Crop: Potato, RainfallMin: 500, RainfallMax: 700, TempMin: 15, TempMax: 22},
		{Crop: Onion, RainfallMin: 300, RainfallMax: 600, TempMin: 15, TempMax: 30},
	}
}
