package save

import "fmt"

// Legacy V0 fields replaced by purchasedUpgrades.
const (
	legacyTypingUnlocked  = "typingUnlocked"
	legacyAutoBuyUnlocked = "autoBuyUnlocked"
)

type migration func(doc map[string]any)

// migrations[i] upgrades a document from version i to i+1.
var migrations = []migration{
	migrateV0toV1,
	migrateV1toV2,
}

// detectVersion infers the format of a document. V0 and V1 documents carry
// no version field; V1 introduced purchasedUpgrades.
func detectVersion(doc map[string]any) int {
	if v, ok := doc["version"].(float64); ok {
		return int(v)
	}
	if _, ok := doc["purchasedUpgrades"]; ok {
		return 1
	}
	return 0
}

func migrate(doc map[string]any) error {
	v := detectVersion(doc)
	if v > Version {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidSnapshot, v)
	}
	for ; v < Version; v++ {
		migrations[v](doc)
	}
	return nil
}

// migrateV0toV1 folds the legacy unlock booleans into purchasedUpgrades.
func migrateV0toV1(doc map[string]any) {
	var upgrades []any
	if existing, ok := doc["purchasedUpgrades"].([]any); ok {
		upgrades = existing
	}
	add := func(id string) {
		for _, u := range upgrades {
			if u == id {
				return
			}
		}
		upgrades = append(upgrades, id)
	}
	if on, _ := doc[legacyTypingUnlocked].(bool); on {
		add("typing")
	}
	if on, _ := doc[legacyAutoBuyUnlocked].(bool); on {
		add("autobuy")
	}
	delete(doc, legacyTypingUnlocked)
	delete(doc, legacyAutoBuyUnlocked)
	if upgrades != nil {
		doc["purchasedUpgrades"] = upgrades
	}
}

// migrateV1toV2 stamps the explicit version field.
func migrateV1toV2(doc map[string]any) {
	doc["version"] = float64(2)
}
