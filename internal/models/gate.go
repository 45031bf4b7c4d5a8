package models

type Gate struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Location string   `json:"location"`
	ZoneIDs  []string `json:"zoneIds"`
}

func (g *Gate) HasZone(zoneID string) bool {
	for _, id := range g.ZoneIDs {
		if id == zoneID {
			return true
		}
	}
	return false
}
