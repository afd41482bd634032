package model

import "strings"

// Helipad is a landing site shown on the route map.
type Helipad struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Type     string  `json:"type"`
	Capacity string  `json:"capacity"`
}

var helipads = []Helipad{
	{1, "Central Helipad", 22.2810, 114.1580, "Commercial", "4 aircraft"},
	{2, "Tsim Sha Tsui Terminal", 22.2940, 114.1720, "Tourist", "6 aircraft"},
	{3, "Peak Helipad", 22.2710, 114.1490, "Scenic", "2 aircraft"},
	{4, "Ocean Terminal Helipad", 22.2950, 114.1680, "Commercial", "4 aircraft"},
	{5, "Wong Tai Sin Helipad", 22.3430, 114.1940, "Cultural", "3 aircraft"},
	{6, "Convention Centre Landing", 22.2830, 114.1740, "Events", "5 aircraft"},
	{7, "Mid-Levels Terminal", 22.2750, 114.1520, "Residential", "3 aircraft"},
	{8, "Sha Tin Helipad", 22.3820, 114.1990, "New Territories", "4 aircraft"},
	{9, "Tai Po Landing", 22.4500, 114.1640, "Nature", "2 aircraft"},
	{10, "Mong Kok Night Terminal", 22.3190, 114.1690, "Entertainment", "3 aircraft"},
	{11, "Causeway Bay Landing", 22.2800, 114.1850, "Shopping", "4 aircraft"},
	{12, "Man Mo Temple Landing", 22.2820, 114.1480, "Heritage", "2 aircraft"},
	{13, "Aberdeen Harbour Pad", 22.2480, 114.1520, "Maritime", "3 aircraft"},
	{14, "Repulse Bay Terminal", 22.2360, 114.1970, "Beach", "2 aircraft"},
	{15, "Stanley Market Helipad", 22.2180, 114.2130, "Coastal", "2 aircraft"},
	{16, "Lantau Island Base", 22.2580, 114.0080, "Airport", "8 aircraft"},
	{17, "Discovery Bay Landing", 22.2940, 114.0420, "Residential", "3 aircraft"},
	{18, "Tung Chung Terminal", 22.2890, 114.0110, "Transport", "4 aircraft"},
	{19, "Kwun Tong Industrial Pad", 22.3080, 114.2260, "Industrial", "3 aircraft"},
	{20, "Sai Kung Nature Landing", 22.3810, 114.2740, "Nature Reserve", "2 aircraft"},
}

// Helipads returns a copy of the helipad catalogue.  A non-empty typ keeps
// only helipads of that type (case-insensitive).
func Helipads(typ string) []Helipad {
	typ = strings.TrimSpace(typ)
	out := make([]Helipad, 0, len(helipads))
	for _, h := range helipads {
		if typ == "" || strings.EqualFold(h.Type, typ) {
			out = append(out, h)
		}
	}
	return out
}
