// Package parsers registers every parser package with the default
// registry. Import it for side effects only.
package parsers

import (
	_ "metar_parser/internal/parsers/weather"
)
