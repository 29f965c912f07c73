package repository

import "strings"

// Storage key names. Data keys hold the collections and are removed by a
// bulk wipe; config keys hold user preferences and survive it.
const (
	DataKeyPrefix   = "clinicpad.data."
	ConfigKeyPrefix = "clinicpad.config."

	KeyPatients     = DataKeyPrefix + "patients"
	KeyAppointments = DataKeyPrefix + "appointments"
	KeyOperationLog = DataKeyPrefix + "oplog"

	KeyShowDummyData = ConfigKeyPrefix + "showDummyData"
	KeyFirstLaunch   = ConfigKeyPrefix + "firstLaunch"
)

func IsDataKey(key string) bool {
	return strings.HasPrefix(key, DataKeyPrefix)
}

func IsConfigKey(key string) bool {
	return strings.HasPrefix(key, ConfigKeyPrefix)
}
