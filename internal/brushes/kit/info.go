package kit

import (
	"github.com/Faultbox/scatterbrush/internal/brush"
	"github.com/Faultbox/scatterbrush/internal/props"
)

// Info describes a tool whose label derives from its id.
func Info(id string, c brush.Category, infobox ...string) brush.Info {
	return brush.Info{
		ID:       id,
		Category: c,
		Label:    props.Label(id),
		Icon:     "scatter." + id,
		Infobox:  infobox,
	}
}
