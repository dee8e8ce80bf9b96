package handler

import (
	_ "embed"
)

// Bundled pages served when GET_MODE=page.
var (
	//go:embed pages/contactus.html
	contactPage string

	//go:embed pages/success.html
	successPage string
)
