package roster

// Player represents one row in the player roster.
type Player struct {
	ID       string `json:"id"`
	Class    string `json:"class"`
	Selected bool   `json:"selected"`
}

// UnknownClass is returned by ClassOf for ids that are not on the roster.
const UnknownClass = "unknown"

// classes is the fixed set of character classes, taken from the game data.
var classes = []string{
	"大理", "峨眉", "丐帮", "明教", "天山",
	"无尘", "武当", "逍遥", "星宿", "玄机",
}

// Classes returns the fixed list of character classes.
func Classes() []string {
	out := make([]string, len(classes))
	copy(out, classes)
	return out
}

// ValidClass reports whether name is one of the fixed character classes.
func ValidClass(name string) bool {
	for _, c := range classes {
		if c == name {
			return true
		}
	}
	return false
}
