package riot

import (
	"fmt"
	"strings"

	"rift-tracker/internal/domain"
)

var regionRouting = map[string][2]string{
	"EUW": {"euw1", "europe"}, "EUW1": {"euw1", "europe"},
	"EUNE": {"eun1", "europe"}, "EUN1": {"eun1", "europe"},
	"NA": {"na1", "americas"}, "NA1": {"na1", "americas"},
	"KR": {"kr", "asia"},
	"JP": {"jp1", "asia"}, "JP1": {"jp1", "asia"},
	"BR": {"br1", "americas"}, "BR1": {"br1", "americas"},
	"LAN": {"la1", "americas"}, "LA1": {"la1", "americas"},
	"LAS": {"la2", "americas"}, "LA2": {"la2", "americas"},
	"OCE": {"oc1", "sea"}, "OC1": {"oc1", "sea"},
	"TR": {"tr1", "europe"}, "TR1": {"tr1", "europe"},
	"RU": {"ru", "europe"}, "RU1": {"ru", "europe"},
}

// MapRegion translates a user-facing region code into the platform and
// regional routing hosts. Unknown codes fail before any network call.
func MapRegion(region string) (platform, regional string, err error) {
	r, ok := regionRouting[strings.ToUpper(region)]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", domain.ErrRegionUnsupported, region)
	}
	return r[0], r[1], nil
}
