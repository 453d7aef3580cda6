package features

import "strings"

// GearDetector reports whether a member's instrument or carried equipment
// causes stage-changeover friction.
type GearDetector func(instrument, carryEquipment string) bool

// heavyGearTokens flag keyboards and synthesizers.
var heavyGearTokens = []string{"key", "syn"}

// IsHeavyGear is the default GearDetector.
func IsHeavyGear(instrument, carryEquipment string) bool {
	return isHeavyText(instrument) || isHeavyText(carryEquipment)
}

func isHeavyText(s string) bool {
	if s == "" {
		return false
	}
	return containsAny(strings.ToLower(s), heavyGearTokens)
}
