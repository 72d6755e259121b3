package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Location is the geolocation profile resolved for a client address.
type Location struct {
	Country   string  `json:"country"`
	Region    string  `json:"region"`
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	IsVPN     bool    `json:"is_vpn"`
	IsProxy   bool    `json:"is_proxy"`
}

// Anonymized reports whether the address was flagged as VPN or proxy.
func (l Location) Anonymized() bool {
	return l.IsVPN || l.IsProxy
}

// Encode returns the canonical JSON text stored in the location_data column.
func (l Location) Encode() (string, error) {
	b, err := json.Marshal(l)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeLocation parses a stored location_data value. Fields are coerced
// leniently (numeric strings, "true"/"false" strings) because older rows were
// written by other producers; a missing country reads as "Unknown".
func DecodeLocation(raw string) (Location, error) {
	obj, err := ParseJSONObject(raw)
	if err != nil {
		return Location{}, fmt.Errorf("decode location: %w", err)
	}

	loc := Location{
		Country:   stringField(obj, "country"),
		Region:    stringField(obj, "region"),
		City:      stringField(obj, "city"),
		Latitude:  floatField(obj, "latitude"),
		Longitude: floatField(obj, "longitude"),
		IsVPN:     boolField(obj, "is_vpn"),
		IsProxy:   boolField(obj, "is_proxy"),
	}
	if loc.Country == "" {
		loc.Country = "Unknown"
	}
	return loc, nil
}

func stringField(obj JSON, key string) string {
	switch v := obj[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

func floatField(obj JSON, key string) float64 {
	switch v := obj[key].(type) {
	case json.Number:
		f, _ := v.Float64()
		return f
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f
	default:
		return 0
	}
}

func boolField(obj JSON, key string) bool {
	switch v := obj[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	case json.Number:
		return v.String() != "0"
	default:
		return false
	}
}
