package profiledesk

import "embed"

// PublicFS contains the client pages and the default avatar.
//
//go:embed public
var PublicFS embed.FS
