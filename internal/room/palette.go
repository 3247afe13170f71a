package room

import "math/rand"

// retroPalette is the fixed set of colors assigned to users who never picked
// one. Assignments are persisted, so a username keeps its drawn color across
// reconnects.
var retroPalette = [...]string{
	"#ff00ff", "#00ffff", "#ffff00", "#ff6600",
	"#00ff00", "#ff0099", "#9900ff", "#ff3333",
	"#33ff33", "#3399ff", "#ff66cc", "#66ffcc",
	"#ffcc00", "#cc66ff", "#66ccff", "#ff9966",
}

func randomColor() string {
	return retroPalette[rand.Intn(len(retroPalette))]
}
