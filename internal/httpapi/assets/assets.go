// Package assets embeds the static landing page and stylesheet served by
// the app (HTML) content family, rather than reading them off disk at
// runtime.
package assets

import "embed"

//go:embed landing.html style.css
var FS embed.FS
