package catalog

// SettingType is the key of a site setting.
type SettingType string

// The fixed set of setting types.
const (
	SettingAddress    SettingType = "address"
	SettingMap        SettingType = "map"
	SettingAbout      SettingType = "about"
	SettingPrivacy    SettingType = "privacy"
	SettingDisclaimer SettingType = "disclaimer"
)

// SettingTypes returns all known setting types.
func SettingTypes() []SettingType {
	return []SettingType{SettingAddress, SettingMap, SettingAbout, SettingPrivacy, SettingDisclaimer}
}

// Valid reports whether t is one of the known setting types.
func (t SettingType) Valid() bool {
	for _, known := range SettingTypes() {
		if t == known {
			return true
		}
	}

	return false
}
