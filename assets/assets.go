// Package assets carries the default wardrobe catalog compiled into the binaries.
package assets

import _ "embed"

//go:embed wardrobe.json
var WardrobeJSON []byte
