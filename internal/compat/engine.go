package compat

// Engine is a browser a user's support matrix can target.
type Engine uint8

const (
	Chrome Engine = iota
	Edge
	Firefox
	IE
	IOS
	Opera
	Safari
)

func (e Engine) String() string {
	switch e {
	case Chrome:
		return "chrome"
	case Edge:
		return "edge"
	case Firefox:
		return "firefox"
	case IE:
		return "ie"
	case IOS:
		return "ios"
	case Opera:
		return "opera"
	case Safari:
		return "safari"
	default:
		return "unknown"
	}
}

// StringToEngine lets a support matrix loaded from YAML/JSON name engines
// by their lowercase token rather than requiring the caller to know this
// package's constant identifiers.
var StringToEngine = map[string]Engine{
	"chrome":  Chrome,
	"edge":    Edge,
	"firefox": Firefox,
	"ie":      IE,
	"ios":     IOS,
	"opera":   Opera,
	"safari":  Safari,
}
