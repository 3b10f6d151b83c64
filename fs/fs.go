// Package appfs embeds the static files shipped with the binaries.
package appfs

import "embed"

//go:embed templates content templates/email/_base.gohtml templates/email/_base.txt
var FS embed.FS
