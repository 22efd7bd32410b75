// Package config provides configuration loading for the gateway.
//
// Configuration is read from a YAML file, defaulted, validated and then
// overridden from the environment. The canonical deployment variables
// (JWT_SECRET, TESSIE_API_KEY, TESLEMETRY_API_KEY, FLEET_API_KEY,
// FLEET_REGION) are recognized alongside the prefixed FLEETGATE_* form.
//
// The loaded configuration is installed as a process-wide read-only snapshot
// via Set and read at request time via Current. A fsnotify-based Watcher can
// reload the snapshot when the file changes; request handlers always see a
// consistent snapshot because the pointer is swapped atomically.
package config
