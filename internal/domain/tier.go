package domain

import "strings"

// Tier is the competitive ladder tier, ordered lowest to highest.
type Tier int

const (
	TierIron Tier = iota
	TierBronze
	TierSilver
	TierGold
	TierPlatinum
	TierEmerald
	TierDiamond
	TierMaster
	TierGrandmaster
	TierChallenger
)

var tierNames = [...]string{
	"IRON", "BRONZE", "SILVER", "GOLD", "PLATINUM",
	"EMERALD", "DIAMOND", "MASTER", "GRANDMASTER", "CHALLENGER",
}

func (t Tier) String() string {
	if t < TierIron || t > TierChallenger {
		return "UNRANKED"
	}
	return tierNames[t]
}

func ParseTier(s string) (Tier, bool) {
	up := strings.ToUpper(s)
	for i, name := range tierNames {
		if name == up {
			return Tier(i), true
		}
	}
	return 0, false
}
